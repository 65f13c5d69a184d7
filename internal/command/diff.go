// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/differ"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/meta"
	"github.com/tfctl/sieve/internal/output"
)

// diffCommandAction shows what the filters removed from the collection.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "diff"

	in, err := loadFilterInputs(ctx, cmd)
	if err != nil {
		return err
	}

	results, report := filters.Explain(in.collection.Records, in.set, in.values)
	reportDegraded(report)

	coloring := cmd.Bool("color") && output.IsTerminal(os.Stdout)
	return differ.Diff(stdout(m), in.collection.Records, results, coloring)
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored delta output",
			Value:   false,
		},
	}
	flags = append(flags, NewSpecFlags("diff")...)
	flags = append(flags, NewSourceFlags("diff")...)

	return &cli.Command{
		Name:      "diff",
		Usage:     "show the records the filters remove",
		UsageText: "sieve diff [source] [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    diffCommandAction,
	}
}
