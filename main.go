// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tfctl/sieve/internal/cacheutil"
	"github.com/tfctl/sieve/internal/command"
	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/version"
)

var ctx = context.Background()

// boolFlags take no value, so the token after them is never consumed.
var boolFlags = []string{
	"--color", "-c", "--refresh", "--strict", "--titles", "-t",
}

// repeatFlags accumulate and are never deduplicated.
var repeatFlags = []string{
	"--decl", "-d", "--set",
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs expands @set references and folds repeated flags.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = deduplicateFlags(args)
	log.Debugf("args after dedup: args=%v", args)

	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	if !slices.Contains(args, "--help") && !slices.Contains(args, "-h") {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @name argument into the flags listed under
// <command>.<name> in the config file, at the position it appeared.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	if len(args) <= idx {
		return args
	}

	for i, a := range args[idx:] {
		if !strings.HasPrefix(a, "@") || len(a) == 1 {
			continue
		}

		entries, _ := config.GetStringSlice(args[1] + "." + a[1:])
		return injectConfigSet(args, entries, idx+i)
	}
	return args
}

// injectConfigSet replaces args[at] with the whitespace split entries.
func injectConfigSet(args []string, entries []string, at int) []string {
	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:at]...)
	out = append(out, expanded...)
	return append(out, args[at+1:]...)
}

// deduplicateFlags keeps only the last occurrence of each single-valued flag
// so that flags typed after an @set override the set's values.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 { //nolint:mnd
		return args
	}

	type token struct {
		name  string
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}

		name, _, hasValue := strings.Cut(a, "=")
		t := token{name: name, parts: []string{a}}
		// Values may start with "-", as in "--sort -rating".
		if !hasValue && !slices.Contains(boolFlags, name) && i+1 < len(args) {
			t.parts = append(t.parts, args[i+1])
			i++
		}
		tokens = append(tokens, t)
	}

	last := map[string]int{}
	for i, t := range tokens {
		if t.name != "" && !slices.Contains(repeatFlags, t.name) {
			last[t.name] = i
		}
	}

	out := slices.Clone(args[:2])
	for i, t := range tokens {
		if t.name != "" && !slices.Contains(repeatFlags, t.name) && last[t.name] != i {
			continue
		}
		out = append(out, t.parts...)
	}
	return out
}
