// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package browse is the interactive filter panel: one input per filter spec,
// with the matching records re-computed on every edit.
package browse
