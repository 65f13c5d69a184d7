// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows an in-memory collection of records to the subset
// that satisfies every active filter.
//
// Filters are declared once as a list of Spec values. Each Spec names the
// record field it inspects, a Kind and, depending on the kind, a Mode or an
// option set:
//
//   - string    : contains (case-insensitive substring), regex, exact
//   - numeric   : eq, gt, gte, lt, lte
//   - selection : equality against one of the declared options
//
// Declarations may also be written in the compact tuple form used by
// configuration files:
//
//   - ["name", "string", "contains"]
//   - ["rating", "numeric", "gte"]
//   - ["type", "selection", ["public", "private"]]
//
// Spec Validation:
//
// Validate checks the declarations and returns a Set holding only the valid
// entries, in declaration order, together with an error describing every
// entry it dropped. The engine accepts only a Set, so an invalid Spec is never
// evaluated.
//
// Active Values:
//
// Values maps a field to the raw text the caller supplied for it. A field
// that is absent, empty or equal to "all" is inactive and imposes no
// constraint. The rule lives in Values.Lookup and applies to every kind.
//
// Evaluation:
//
// Apply folds the active values over the collection, spec by spec, keeping
// only records that satisfy each active predicate (logical AND). The result
// preserves input order and never aliases a modified input. Malformed runtime
// values, an invalid regular expression or a non-numeric entry for a numeric
// filter, degrade that filter to inactive for the pass instead of failing. A
// record that lacks the inspected field never matches an active filter on it.
//
// The package holds no mutable state and performs no I/O; concurrent callers
// need no synchronization.
package filters
