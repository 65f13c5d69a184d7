// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"github.com/tfctl/sieve/internal/cacheutil"
	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/log"
)

const (
	scopeS3   = "s3"
	scopeHTTP = "http"
)

// cached serves uri from the cache when possible and stores fresh bodies.
func cached(scope, uri string, opts Options, fetch func() ([]byte, error)) ([]byte, error) {
	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if !opts.Refresh {
		if entry, ok := cacheutil.Read(scope, uri, opts.MaxAge); ok {
			log.Debugf("cache hit: %s", entry.Path)
			return entry.Data, nil
		}
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := cacheutil.Write(scope, uri, data); err != nil {
		log.WithError(err).Warn("failed to write cache")
	}
	return data, nil
}

// PurgeCache removes cached bodies older than cache.clean hours.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
