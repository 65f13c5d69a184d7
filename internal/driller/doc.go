// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves dotted field paths such as "owner.name" or
// "tags[0]" against parsed JSON records.
package driller
