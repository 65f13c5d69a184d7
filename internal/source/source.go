// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/sieve/internal/aws"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
)

// Stdin is the source name that reads the collection from standard input.
const Stdin = "-"

var (
	// ErrNoParent is returned when --parent names nothing in the document.
	ErrNoParent = errors.New("parent path not found")
	// ErrUndecodable is returned for bodies that are neither JSON nor YAML.
	ErrUndecodable = errors.New("source is neither JSON nor YAML")
)

// Options tune how a source is fetched and decoded.
type Options struct {
	// Stdin is read for the "-" source. Defaults to os.Stdin.
	Stdin io.Reader
	// Parent is a gjson path to the record array inside the document.
	Parent string
	// MaxAge bounds how old a cached remote body may be. Zero accepts any age.
	MaxAge time.Duration
	// Refresh skips cache reads; fresh bodies are still written.
	Refresh bool
	// S3 overrides the S3 client; one is built from the AWS config chain
	// when nil.
	S3 aws.ObjectGetter
	// AWS options used when building the S3 client.
	AWS []aws.Option
	// HTTP overrides the retrying HTTP client.
	HTTP *retryablehttp.Client
}

// Collection is a decoded record collection.
type Collection struct {
	URI     string
	Doc     gjson.Result
	Records []filters.JSONRecord
}

// Len reports the number of records.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Load fetches uri and decodes it into a collection.
func Load(ctx context.Context, uri string, opts Options) (*Collection, error) {
	data, err := Read(ctx, uri, opts)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data, opts.Parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}

	records := filters.JSONRecords(doc)
	log.Debugf("source loaded: uri=%s, records=%d", uri, len(records))
	return &Collection{URI: uri, Doc: doc, Records: records}, nil
}

// Read returns the raw body named by uri. Remote bodies go through the cache.
func Read(ctx context.Context, uri string, opts Options) ([]byte, error) {
	switch {
	case uri == "" || uri == Stdin:
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(uri, "s3://"):
		return cached(scopeS3, uri, opts, func() ([]byte, error) {
			return readS3(ctx, uri, opts)
		})
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return cached(scopeHTTP, uri, opts, func() ([]byte, error) {
			return readHTTP(ctx, uri, opts)
		})
	default:
		data, err := os.ReadFile(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		return data, nil
	}
}

// Decode parses a JSON or YAML body and, when parent is set, selects the
// record array inside it.
func Decode(data []byte, parent string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return gjson.Result{}, err
		}
		data = converted
	}

	doc := gjson.ParseBytes(data)
	if parent != "" {
		doc = gjson.GetBytes(data, parent)
		if !doc.Exists() {
			return gjson.Result{}, fmt.Errorf("%w: %s", ErrNoParent, parent)
		}
	}

	if !doc.IsArray() && !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: expected an array or object, got %s", ErrUndecodable, doc.Type)
	}
	return doc, nil
}

// yamlToJSON re-encodes a YAML document as JSON.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	return out, nil
}

func readS3(ctx context.Context, uri string, opts Options) ([]byte, error) {
	client := opts.S3
	if client == nil {
		cfg, err := aws.LoadAWSConfig(ctx, opts.AWS...)
		if err != nil {
			return nil, err
		}
		client = aws.NewS3(cfg)
	}
	return aws.GetObject(ctx, client, uri)
}

func readHTTP(ctx context.Context, uri string, opts Options) ([]byte, error) {
	client := opts.HTTP
	if client == nil {
		client = NewHTTPClient()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get %s: %s", uri, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return data, nil
}

// NewHTTPClient returns the retrying client used for http(s) sources.
func NewHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = httpLogger{}
	return client
}

// httpLogger routes retryablehttp's leveled output into the debug log.
type httpLogger struct{}

func (httpLogger) Error(msg string, kv ...interface{}) { log.Debugf("http: %s %v", msg, kv) }
func (httpLogger) Info(msg string, kv ...interface{})  { log.Tracef("http: %s %v", msg, kv) }
func (httpLogger) Debug(msg string, kv ...interface{}) { log.Tracef("http: %s %v", msg, kv) }
func (httpLogger) Warn(msg string, kv ...interface{})  { log.Debugf("http: %s %v", msg, kv) }
