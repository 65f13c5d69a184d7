// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for sieve's user
// configuration. The configuration is a YAML document located at
// $SIEVE_CFG_FILE or in the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/sieve.yaml or $HOME/.config/sieve.yaml
//   - macOS: $HOME/Library/Application Support/sieve.yaml
//   - Windows: %APPDATA%/sieve.yaml
//
// It holds named filter declaration lists (specs.<name>), argument sets
// expanded by @set (<command>.<set>), flag defaults, table colors and cache
// settings.
package config
