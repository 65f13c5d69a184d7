// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tfctl/sieve/internal/log"
)

var (
	// ErrInvalidPattern marks a regex filter whose active value does not
	// compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrNotNumeric marks a numeric filter whose active value is not a number.
	ErrNotNumeric = errors.New("not a number")
)

// predicate tests the value of the inspected field of one record.
type predicate func(value any) bool

// evaluator builds the predicate of spec for one active value. An error means
// the value cannot constrain anything during this pass.
type evaluator func(spec Spec, value string) (predicate, error)

// evaluators dispatches on the spec kind. Adding a kind means adding a Kind
// constant, its check in Spec.check and an entry here.
var evaluators = map[Kind]evaluator{
	KindString:    stringEvaluator,
	KindNumeric:   numericEvaluator,
	KindSelection: selectionEvaluator,
}

// numericOps maps each numeric mode to its comparison of field value f
// against the entered number n.
var numericOps = map[Mode]func(f, n float64) bool{
	ModeEq:  func(f, n float64) bool { return f == n },
	ModeGt:  func(f, n float64) bool { return f > n },
	ModeGte: func(f, n float64) bool { return f >= n },
	ModeLt:  func(f, n float64) bool { return f < n },
	ModeLte: func(f, n float64) bool { return f <= n },
}

// Degraded records a spec that had an active value but was ignored because the
// value could not be evaluated.
type Degraded struct {
	Spec  Spec
	Value string
	Err   error
}

// Report describes what one evaluation pass did with each spec.
type Report struct {
	// Applied specs constrained the result.
	Applied []Spec
	// Skipped specs had no active value.
	Skipped []Spec
	// Degraded specs had an active value that could not be evaluated.
	Degraded []Degraded
}

// Filtered reports whether any spec constrained the result.
func (r Report) Filtered() bool {
	return len(r.Applied) > 0
}

// Apply returns the records of collection that satisfy every active spec of
// set, in their original order. When no spec is active the collection itself
// is returned. Apply never modifies collection.
func Apply[R Record](collection []R, set *Set, active Values) []R {
	result, _ := Explain(collection, set, active)
	return result
}

// Explain is Apply plus a Report of how each spec was treated.
func Explain[R Record](collection []R, set *Set, active Values) ([]R, Report) {
	var report Report
	result := collection

	for _, spec := range set.Specs() {
		value, ok := active.Lookup(spec.Field)
		if !ok {
			report.Skipped = append(report.Skipped, spec)
			continue
		}

		match, err := compile(spec, value)
		if err != nil {
			log.Debugf("filter degraded to inactive: field=%s, value=%q, err=%v", spec.Field, value, err)
			report.Degraded = append(report.Degraded, Degraded{Spec: spec, Value: value, Err: err})
			continue
		}

		before := len(result)
		result = narrow(result, spec.Field, match)
		log.Tracef("filter applied: spec=%s, value=%q, kept=%d/%d", spec, value, len(result), before)
		report.Applied = append(report.Applied, spec)
	}

	return result, report
}

// compile looks up the evaluator of the spec's kind and builds its predicate.
func compile(spec Spec, value string) (predicate, error) {
	eval, ok := evaluators[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, spec.Kind)
	}
	return eval(spec, value)
}

// narrow keeps the records whose field is present and satisfies match. It
// always allocates, so the caller's slice is never reordered or truncated.
func narrow[R Record](records []R, field string, match predicate) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if any(r) == nil {
			continue
		}
		value, ok := r.Lookup(field)
		if !ok || value == nil {
			continue
		}
		if match(value) {
			out = append(out, r)
		}
	}
	return out
}

// stringEvaluator handles the contains, regex and exact modes. Field values
// are compared in their text form.
func stringEvaluator(spec Spec, value string) (predicate, error) {
	switch spec.Mode {
	case ModeContains:
		needle := strings.ToLower(value)
		return func(v any) bool {
			return strings.Contains(strings.ToLower(textOf(v)), needle)
		}, nil
	case ModeRegex:
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}
		return func(v any) bool {
			return re.MatchString(textOf(v))
		}, nil
	case ModeExact:
		return func(v any) bool {
			return textOf(v) == value
		}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMode, spec.Mode)
}

// numericEvaluator parses the entered value once and compares each record's
// numeric field against it. Records whose field has no numeric form fail.
func numericEvaluator(spec Spec, value string) (predicate, error) {
	op, ok := numericOps[spec.Mode]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, spec.Mode)
	}

	n, ok := parseNumber(value)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, value)
	}

	return func(v any) bool {
		f, ok := numberOf(v)
		return ok && op(f, n)
	}, nil
}

// selectionEvaluator is plain equality against the chosen option. The option
// set only feeds the caller's choice list.
func selectionEvaluator(_ Spec, value string) (predicate, error) {
	return func(v any) bool {
		return textOf(v) == value
	}, nil
}
