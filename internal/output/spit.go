// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/sieve/internal/attrs"
	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Formats lists every output format.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatRaw}

// Options controls how results are emitted.
type Options struct {
	Format  string
	Color   bool
	Titles  bool
	Padding int
	Sort    string
	Header  string
	Footer  string
}

// OptionsFromCommand reads the output flags of cmd. Color is only honored when
// stdout is a terminal.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Format:  cmd.String("output"),
		Color:   cmd.Bool("color") && IsTerminal(os.Stdout),
		Titles:  cmd.Bool("titles"),
		Padding: int(cmd.Int("padding")),
		Sort:    cmd.String("sort"),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Header summarizes how many records survived.
func Header(shown, total int, filtered bool) string {
	header := fmt.Sprintf("Showing %s of %s records",
		humanize.Comma(int64(shown)), humanize.Comma(int64(total)))
	if filtered {
		header += " (filtered)"
	}
	return header
}

// InterfaceToString converts a row value to its display text. A custom empty
// value may be provided for nil and empty strings.
func InterfaceToString(value any, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	switch v := value.(type) {
	case nil:
		return empty
	case string:
		if v == "" {
			return empty
		}
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(jsonBytes)
	}
}

// Spit projects, sorts and renders records to w.
func Spit(w io.Writer, records []filters.JSONRecord, list attrs.AttrList, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	// Raw is the surviving records' original text, untouched.
	if opts.Format == FormatRaw {
		raw := make([]string, len(records))
		for i, r := range records {
			raw[i] = r.Raw
		}
		_, err := fmt.Fprintf(w, "[%s]\n", strings.Join(raw, ","))
		return err
	}

	rows := attrs.Project(records, list)
	SortDataset(rows, opts.Sort)

	switch opts.Format {
	case FormatJSON:
		out, err := json.Marshal(included(rows, list))
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(included(rows, list))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatText, "":
		TableWriter(w, rows, list, opts)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// included drops sort-only columns from rows.
func included(rows []map[string]any, list attrs.AttrList) []map[string]any {
	titles := list.Titles()
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = make(map[string]any, len(titles))
		for _, title := range titles {
			out[i][title] = row[title]
		}
	}
	return out
}

// TableWriter renders rows as a borderless table honoring color, titles and
// padding options.
func TableWriter(w io.Writer, rows []map[string]any, list attrs.AttrList, opts Options) {
	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	if len(rows) > 0 {
		titles := list.Titles()
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cell := make([]string, 0, len(titles))
			for _, title := range titles {
				cell = append(cell, InterfaceToString(row[title], "-"))
			}
			cells = append(cells, cell)
		}

		pad := opts.Padding
		t := table.New().
			BorderBottom(false).
			BorderTop(false).
			BorderLeft(false).
			BorderRight(false).
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				var style lipgloss.Style
				switch {
				case row == table.HeaderRow:
					style = headerStyle
				case row%2 == 0:
					style = evenRowStyle
				default:
					style = oddRowStyle
				}

				if col > 0 {
					style = style.PaddingLeft(pad)
				}

				return style
			}).
			Headers().
			Rows(cells...)

		if opts.Titles {
			// https://github.com/charmbracelet/lipgloss/issues/261
			t = t.Headers(titles...).BorderHeader(false)
		}
		fmt.Fprintln(w, t)
	}

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// getColors returns configured color values for table rendering, falling
// back to defaults picked for the terminal background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")
	log.Tracef("colors resolved: dark=%v", isDark)

	return
}
