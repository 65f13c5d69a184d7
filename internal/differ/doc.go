// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ renders what a filter pass removed as a JSON delta between
// the input and filtered collections.
package differ
