// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/sieve/internal/log"
)

// Entry is a cached source body. Key is the clear-text key (usually a source
// URI); the file name is its hash.
type Entry struct {
	Key    string
	Path   string
	Data   []byte
	Stored time.Time
}

// Dir resolves the base cache directory.
// Precedence:
//  1. SIEVE_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/sieve
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("SIEVE_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sieve"), true
	}
	return "", false
}

// Enabled returns true unless SIEVE_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("SIEVE_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// entryPath returns where the entry for key lives beneath scope.
func entryPath(scope, key string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(base, scope, encodeKey(key)), true
}

// Read returns the cached entry for key beneath scope. Entries older than
// maxAge are treated as missing; maxAge <= 0 accepts any age.
func Read(scope, key string, maxAge time.Duration) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}

	p, ok := entryPath(scope, key)
	if !ok {
		return nil, false
	}

	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return nil, false
	}
	if maxAge > 0 && time.Since(info.ModTime()) > maxAge {
		log.Debugf("cache stale: key=%s, age=%s", key, time.Since(info.ModTime()))
		return nil, false
	}

	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}

	log.Debugf("cache hit: key=%s", key)
	return &Entry{
		Key:    key,
		Path:   p,
		Data:   b,
		Stored: info.ModTime(),
	}, true
}

// Write stores data for key beneath scope, creating directories as needed.
// A disabled cache silently accepts the write.
func Write(scope, key string, data []byte) error {
	if !Enabled() {
		return nil
	}

	p, ok := entryPath(scope, key)
	if !ok {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}

	log.Debugf("cache write: key=%s, bytes=%d", key, len(data))
	return nil
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() {
			return nil
		}

		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			} else {
				log.Debugf("removed cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
