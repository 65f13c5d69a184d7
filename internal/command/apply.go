// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/meta"
	"github.com/tfctl/sieve/internal/output"
)

// applyCommandAction filters the collection with the declared specs and the
// --set values and emits the survivors.
func applyCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "apply"

	in, err := loadFilterInputs(ctx, cmd)
	if err != nil {
		return err
	}

	results, report := filters.Explain(in.collection.Records, in.set, in.values)
	reportDegraded(report)

	list, err := Columns(cmd, in.collection.Records)
	if err != nil {
		return err
	}

	opts := output.OptionsFromCommand(cmd)
	opts.Header = output.Header(len(results), in.collection.Len(), report.Filtered())

	return output.Spit(stdout(m), results, list, opts)
}

// stdout returns the writer commands emit to.
func stdout(m meta.Meta) io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

func applyCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewGlobalFlags("apply")
	flags = append(flags, NewSpecFlags("apply")...)
	flags = append(flags, NewSourceFlags("apply")...)

	return &cli.Command{
		Name:      "apply",
		Usage:     "filter a collection",
		UsageText: "sieve apply [source] [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    applyCommandAction,
	}
}
