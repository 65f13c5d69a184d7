// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package specfile reads filter declarations from YAML, JSON and HCL files,
// from named lists in the configuration, and from inline --decl values. It
// only decodes; validation is left to filters.Validate.
package specfile
