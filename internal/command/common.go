// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/attrs"
	"github.com/tfctl/sieve/internal/aws"
	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/meta"
	"github.com/tfctl/sieve/internal/output"
	"github.com/tfctl/sieve/internal/source"
	"github.com/tfctl/sieve/internal/specfile"
)

// ErrNoSource is returned when no source is named and stdin is a terminal.
var ErrNoSource = errors.New("no source given and stdin is a terminal")

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// loadDecls gathers declarations from the declaration files in paths and the
// --spec, --specset and --decl flags. rejected holds the declarations that
// could not be decoded or are invalid; err is set when a source could not be read at all.
func loadDecls(cmd *cli.Command, paths ...string) (specs []filters.Spec, rejected []error, err error) {
	// A nil result with an error is a failed source; a partial result with an
	// error carries rejected declarations, prefixed with their source since
	// indexes count from each source's start.
	collect := func(source string, got []filters.Spec, gotErr error) error {
		if gotErr != nil && got == nil {
			return gotErr
		}
		specs = append(specs, got...)
		if gotErr != nil {
			rejected = append(rejected, fmt.Errorf("%s: %w", source, gotErr))
		}
		return nil
	}

	if path := cmd.String("spec"); path != "" {
		paths = append(paths, path)
	}
	for _, path := range paths {
		got, loadErr := specfile.Load(path)
		if err := collect(path, got, loadErr); err != nil {
			return nil, nil, err
		}
	}

	if name := cmd.String("specset"); name != "" {
		got, loadErr := specfile.FromConfig(name)
		if err := collect("specset "+name, got, loadErr); err != nil {
			return nil, nil, err
		}
	}

	if decls := cmd.StringSlice("decl"); len(decls) > 0 {
		got, loadErr := specfile.ParseInline(decls)
		if err := collect("--decl", got, loadErr); err != nil {
			return nil, nil, err
		}
	}

	log.Debugf("declarations loaded: specs=%d, rejected=%d", len(specs), len(rejected))
	return specs, rejected, nil
}

// LoadSpecs builds the validated filter set for cmd. Invalid declarations are
// dropped with a warning, or fail the command under --strict.
func LoadSpecs(cmd *cli.Command) (*filters.Set, error) {
	specs, rejected, err := loadDecls(cmd)
	if err != nil {
		return nil, err
	}

	set, err := filters.Validate(specs)
	if joined := errors.Join(append(rejected, err)...); joined != nil {
		if cmd.Bool("strict") {
			return nil, fmt.Errorf("invalid filter declarations: %w", joined)
		}
		log.WithError(joined).Warn("skipping invalid filter declarations")
	}

	return set, nil
}

// LoadValues folds the --set flags into filter values. Later flags win.
func LoadValues(cmd *cli.Command) (filters.Values, error) {
	values := filters.Values{}
	for _, kv := range cmd.StringSlice("set") {
		if err := SetValidator(kv); err != nil {
			return nil, err
		}
		field, value, _ := strings.Cut(kv, "=")
		values.Set(strings.TrimSpace(field), value)
	}
	return values, nil
}

// LoadCollection reads the collection named by the first positional argument,
// defaulting to stdin.
func LoadCollection(ctx context.Context, cmd *cli.Command) (*source.Collection, error) {
	m := GetMeta(cmd)

	uri := cmd.Args().First()
	if uri == "" {
		uri = source.Stdin
	}
	if uri == source.Stdin {
		if f, ok := m.Stdin.(*os.File); ok && output.IsTerminal(f) {
			return nil, ErrNoSource
		}
	}

	opts := source.Options{
		Stdin:   m.Stdin,
		Parent:  cmd.String("parent"),
		Refresh: cmd.Bool("refresh"),
	}
	if minutes, _ := config.GetInt("cache.ttl"); minutes > 0 {
		opts.MaxAge = time.Duration(minutes) * time.Minute
	}
	if profile, _ := config.GetString("aws.profile"); profile != "" {
		opts.AWS = append(opts.AWS, aws.WithProfile(profile))
	}
	if region, _ := config.GetString("aws.region"); region != "" {
		opts.AWS = append(opts.AWS, aws.WithRegion(region))
	}

	return source.Load(ctx, uri, opts)
}

// Columns resolves --attrs against the collection.
func Columns(cmd *cli.Command, records []filters.JSONRecord) (attrs.AttrList, error) {
	var first gjson.Result
	if len(records) > 0 {
		first = records[0].Result
	}
	return attrs.Columns(cmd.String("attrs"), first)
}

// reportDegraded warns about filters whose value could not be used.
func reportDegraded(report filters.Report) {
	for _, d := range report.Degraded {
		log.Warnf("filter ignored: field=%s, value=%q, err=%v", d.Spec.Field, d.Value, d.Err)
	}
}

// filterInputs is everything an action needs to run the engine.
type filterInputs struct {
	collection *source.Collection
	set        *filters.Set
	values     filters.Values
}

// loadFilterInputs loads specs, values and the collection for cmd.
func loadFilterInputs(ctx context.Context, cmd *cli.Command) (filterInputs, error) {
	set, err := LoadSpecs(cmd)
	if err != nil {
		return filterInputs{}, err
	}

	values, err := LoadValues(cmd)
	if err != nil {
		return filterInputs{}, err
	}

	collection, err := LoadCollection(ctx, cmd)
	if err != nil {
		return filterInputs{}, err
	}

	return filterInputs{collection: collection, set: set, values: values}, nil
}
