// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output sorts projected result rows and emits them as a text table,
// JSON, YAML, or the raw surviving records.
package output
