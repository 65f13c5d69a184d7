// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes a markdown reference page per sieve subcommand from
// the live command tree.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/sieve/internal/command"
	"github.com/tfctl/sieve/internal/version"
)

const pageTemplate = `# sieve {{ .Name }}

{{ .Usage }}

    {{ .UsageText }}
{{ if .Flags }}
## Flags

| Flag | Description | Default |
| ---- | ----------- | ------- |
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} |
{{- end }}
{{ end }}
_Generated {{ .Date }} for sieve {{ .Version }}._
`

type Flag struct {
	Syntax      string
	Description string
	Default     string
}

type Page struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []Flag
	Date      string
	Version   string
}

func main() {
	if len(os.Args) < 2 { //nolint:mnd
		fmt.Fprintln(os.Stderr, "usage: docsgen <dir>")
		os.Exit(1)
	}

	if err := generate(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate writes <dir>/commands/<name>.md for every subcommand.
func generate(dir string) error {
	app, err := command.InitApp(context.Background(), []string{"sieve"})
	if err != nil {
		return err
	}

	folder := filepath.Join(dir, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	for _, cmd := range app.Commands {
		path := filepath.Join(folder, cmd.Name+".md")
		fmt.Println("Generating", path)

		file, err := os.Create(path)
		if err != nil {
			return err
		}
		err = render(file, pageFor(cmd))
		file.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func pageFor(cmd *cli.Command) Page {
	page := Page{
		Name:      cmd.Name,
		Usage:     cmd.Usage,
		UsageText: cmd.UsageText,
		Date:      time.Now().Format("January 2, 2006"),
		Version:   version.Version,
	}

	for _, f := range cmd.Flags {
		names := make([]string, 0, len(f.Names()))
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "-"+n)
			} else {
				names = append(names, "--"+n)
			}
		}

		flag := Flag{Syntax: strings.Join(names, ", ")}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			flag.Description = df.GetUsage()
			flag.Default = df.GetValue()
		}
		page.Flags = append(page.Flags, flag)
	}

	sort.Slice(page.Flags, func(i, j int) bool {
		return page.Flags[i].Syntax < page.Flags[j].Syntax
	})
	return page
}

func render(w io.Writer, page Page) error {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, page)
}
