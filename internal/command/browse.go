// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/browse"
	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/meta"
	"github.com/tfctl/sieve/internal/output"
	"github.com/tfctl/sieve/internal/source"
)

// browseCommandAction opens the interactive filter panel. Accepting with
// enter emits the records that survived, as apply would.
func browseCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "browse"

	in, err := loadFilterInputs(ctx, cmd)
	if err != nil {
		return err
	}

	list, err := Columns(cmd, in.collection.Records)
	if err != nil {
		return err
	}

	// Keys come from the terminal when the collection was piped in.
	var keys io.Reader = m.Stdin
	if in.collection.URI == source.Stdin {
		keys = nil
	}

	model := browse.New(in.collection.Records, in.set, list, in.values)
	final, err := browse.Run(ctx, model, keys, stdout(m))
	if err != nil {
		return err
	}
	if !final.Accepted() {
		return nil
	}

	log.Infof("browse values: %s", setFlags(final.Values()))

	opts := output.OptionsFromCommand(cmd)
	opts.Header = output.Header(len(final.Results()), in.collection.Len(), final.Report().Filtered())
	return output.Spit(stdout(m), final.Results(), list, opts)
}

// setFlags renders values as the --set flags that reproduce them.
func setFlags(values map[string]string) string {
	flags := make([]string, 0, len(values))
	for field, value := range values {
		flags = append(flags, "--set '"+field+"="+value+"'")
	}
	sort.Strings(flags)
	return strings.Join(flags, " ")
}

func browseCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewGlobalFlags("browse")
	flags = append(flags, NewSpecFlags("browse")...)
	flags = append(flags, NewSourceFlags("browse")...)

	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive filter panel",
		UsageText: "sieve browse [source] [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    browseCommandAction,
	}
}
