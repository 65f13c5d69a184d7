// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/output"
)

// NewGlobalFlags returns the output flags shared by every command that emits
// records. ns is the command name used for config file defaults.
func NewGlobalFlags(ns string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of key:title:transform columns to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		newOutputFlag(ns, output.Formats),
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text columns",
			Value: 2, //nolint:mnd
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewSpecFlags returns the flags that declare filters.
func NewSpecFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "spec",
			Aliases: []string{"S"},
			Usage:   "filter declaration file (.yaml, .json or .hcl)",
			Sources: cli.EnvVars("SIEVE_SPEC"),
		},
		configured(ns, &cli.StringFlag{
			Name:    "specset",
			Aliases: []string{"n"},
			Usage:   "named declaration list from the specs section of the config",
		}),
		&cli.StringSliceFlag{
			Name:    "decl",
			Aliases: []string{"d"},
			Usage:   "inline declaration, field:kind:mode or field:selection:a|b|c",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail instead of skipping invalid declarations",
			Value: false,
		},
	}
}

// NewSourceFlags returns the flags that control loading and filtering the
// collection.
func NewSourceFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "filter value as field=value, repeatable",
			Validator: func(values []string) error {
				for _, v := range values {
					if err := FlagValidators(v, SetValidator); err != nil {
						return err
					}
				}
				return nil
			},
		},
		configured(ns, &cli.StringFlag{
			Name:    "parent",
			Aliases: []string{"p"},
			Usage:   "path to the record array inside the source document",
		}),
		&cli.BoolFlag{
			Name:  "refresh",
			Usage: "ignore cached copies of remote sources",
			Value: false,
		},
	}
}

// newOutputFlag builds --output restricted to formats.
func newOutputFlag(ns string, formats []string) *cli.StringFlag {
	return configured(ns, &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   output.FormatText,
		Validator: func(value string) error {
			return FlagValidators(value, OneOf(formats...))
		},
	})
}

// configured chains the config file into flag's sources when there is one.
func configured(ns string, flag *cli.StringFlag) *cli.StringFlag {
	if path := config.Path(); path != "" {
		return NameSpacedValueChainFlagFromConfigFile(ns, path, flag)
	}
	return flag
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
