// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/attrs"
	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/meta"
	"github.com/tfctl/sieve/internal/output"
)

// ErrInvalidDecls is returned by validate when any declaration was rejected.
var ErrInvalidDecls = errors.New("invalid filter declarations")

// specRow is the reported shape of one accepted spec.
type specRow struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Mode    string `json:"mode"`
	Options string `json:"options"`
	Label   string `json:"label"`
	Choices string `json:"choices"`
}

const specColumns = "field,kind,mode,options,label,choices"

// validateCommandAction checks declaration files and flags, lists the specs
// that passed and reports the ones that did not.
func validateCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "validate"

	specs, rejected, err := loadDecls(cmd, cmd.Args().Slice()...)
	if err != nil {
		return err
	}

	set, err := filters.Validate(specs)
	if err != nil {
		rejected = append(rejected, err)
	}

	rows := make([]specRow, 0, set.Len())
	for _, spec := range set.Specs() {
		rows = append(rows, specRow{
			Field:   spec.Field,
			Kind:    string(spec.Kind),
			Mode:    string(spec.Mode),
			Options: strings.Join(spec.Options, "|"),
			Label:   spec.Label(),
			Choices: strings.Join(spec.Choices(), "|"),
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	records := filters.JSONRecords(gjson.ParseBytes(data))

	list := attrs.AttrList{}
	if err := list.Set(specColumns); err != nil {
		return err
	}

	opts := output.OptionsFromCommand(cmd)
	opts.Header = fmt.Sprintf("%d valid, %d rejected", len(rows), countErrors(rejected))
	if err := output.Spit(stdout(m), records, list, opts); err != nil {
		return err
	}

	if joined := errors.Join(rejected...); joined != nil {
		fmt.Fprintln(os.Stderr, joined)
		return ErrInvalidDecls
	}

	return nil
}

// countErrors counts the rejected declarations in possibly wrapped and
// joined errors.
func countErrors(errs []error) (n int) {
	for _, err := range errs {
		switch e := err.(type) {
		case nil:
		case interface{ Unwrap() []error }:
			n += countErrors(e.Unwrap())
		case *filters.SpecError:
			n++
		case interface{ Unwrap() error }:
			n += max(countErrors([]error{e.Unwrap()}), 1)
		default:
			n++
		}
	}
	return
}

func validateCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewGlobalFlags("validate")
	flags = append(flags, NewSpecFlags("validate")...)

	return &cli.Command{
		Name:      "validate",
		Usage:     "check filter declarations",
		UsageText: "sieve validate [specfile...] [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    validateCommandAction,
	}
}
