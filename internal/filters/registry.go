// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/tfctl/sieve/internal/log"
)

var (
	// ErrUnknownKind marks a declaration whose kind is not string, numeric or
	// selection.
	ErrUnknownKind = errors.New("unknown filter kind")
	// ErrUnknownMode marks a string or numeric declaration with a mode outside
	// its kind's mode set.
	ErrUnknownMode = errors.New("unknown filter mode")
	// ErrBadOptions marks a selection declaration whose options are not a
	// sequence of literal values.
	ErrBadOptions = errors.New("selection options must be a list of literal values")
	// ErrMalformed marks a declaration that is not a [field, kind, mode] tuple
	// or a field/kind/mode mapping.
	ErrMalformed = errors.New("malformed filter declaration")
)

// SpecError describes one rejected declaration.
type SpecError struct {
	Index int
	Spec  Spec
	Err   error
}

func (e *SpecError) Error() string {
	if e.Spec.Field == "" {
		return fmt.Sprintf("filter #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("filter #%d (%s): %v", e.Index, e.Spec.Field, e.Err)
}

func (e *SpecError) Unwrap() error { return e.Err }

// Set is a validated, ordered and immutable list of specs. The zero value and
// a nil *Set are empty.
type Set struct {
	specs []Spec
}

// Len returns the number of specs in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.specs)
}

// Specs returns a copy of the specs in declaration order.
func (s *Set) Specs() []Spec {
	if s == nil {
		return nil
	}
	out := make([]Spec, len(s.specs))
	for i, spec := range s.specs {
		spec.Options = slices.Clone(spec.Options)
		out[i] = spec
	}
	return out
}

// Validate returns a Set holding the valid specs of the input, in order. Each
// dropped spec is reported as a *SpecError; the returned error joins them and
// is nil when nothing was dropped. The Set is usable either way.
func Validate(specs []Spec) (*Set, error) {
	set := &Set{specs: make([]Spec, 0, len(specs))}

	var errs []error
	for i, spec := range specs {
		if err := spec.check(); err != nil {
			log.Debugf("dropping filter: index=%d, field=%s, err=%v", i, spec.Field, err)
			errs = append(errs, &SpecError{Index: i, Spec: spec, Err: err})
			continue
		}
		spec.Options = slices.Clone(spec.Options)
		set.specs = append(set.specs, spec)
	}
	log.Debugf("specs validated: valid=%d, dropped=%d", len(set.specs), len(errs))

	return set, errors.Join(errs...)
}

// ParseDecls converts a list of raw declarations, as decoded from YAML or
// JSON, into specs. Entries that cannot be decoded or would not pass Validate
// are skipped and reported in the joined error, indexed by their position in
// raw.
func ParseDecls(raw []any) ([]Spec, error) {
	specs := make([]Spec, 0, len(raw))

	var errs []error
	for i, r := range raw {
		spec, err := ParseDecl(r)
		if err == nil {
			err = spec.check()
		}
		if err != nil {
			log.Debugf("skipping declaration: index=%d, err=%v", i, err)
			errs = append(errs, &SpecError{Index: i, Spec: spec, Err: err})
			continue
		}
		specs = append(specs, spec)
	}

	return specs, errors.Join(errs...)
}

// ParseDecl converts one raw declaration into a Spec. Two shapes are
// accepted: the tuple [field, kind, modeOrOptions] and a mapping with field,
// kind, mode and options keys.
func ParseDecl(raw any) (Spec, error) {
	switch r := raw.(type) {
	case []any:
		return parseTuple(r)
	case []string:
		tuple := make([]any, len(r))
		for i := range r {
			tuple[i] = r[i]
		}
		return parseTuple(tuple)
	case map[string]any:
		return parseMapping(r)
	default:
		return Spec{}, fmt.Errorf("%w: unexpected %T", ErrMalformed, raw)
	}
}

// parseTuple decodes the [field, kind, modeOrOptions] form.
func parseTuple(t []any) (Spec, error) {
	if len(t) != 3 { //nolint:mnd
		return Spec{}, fmt.Errorf("%w: want 3 elements, got %d", ErrMalformed, len(t))
	}

	field, ok := t[0].(string)
	if !ok {
		return Spec{}, fmt.Errorf("%w: field must be a string", ErrMalformed)
	}
	kind, ok := t[1].(string)
	if !ok {
		return Spec{Field: field}, fmt.Errorf("%w: kind must be a string", ErrMalformed)
	}

	spec := Spec{Field: field, Kind: Kind(kind)}
	if spec.Kind == KindSelection {
		opts, err := literals(t[2])
		if err != nil {
			return spec, err
		}
		spec.Options = opts
		return spec, nil
	}

	mode, ok := t[2].(string)
	if !ok {
		return spec, fmt.Errorf("%w: mode must be a string", ErrUnknownMode)
	}
	spec.Mode = Mode(mode)
	return spec, nil
}

// parseMapping decodes the {field, kind, mode, options} form.
func parseMapping(m map[string]any) (Spec, error) {
	field, _ := m["field"].(string)
	if field == "" {
		return Spec{}, fmt.Errorf("%w: missing field", ErrMalformed)
	}
	kind, _ := m["kind"].(string)
	spec := Spec{Field: field, Kind: Kind(kind)}

	if mode, ok := m["mode"]; ok {
		s, ok := mode.(string)
		if !ok {
			return spec, fmt.Errorf("%w: mode must be a string", ErrUnknownMode)
		}
		spec.Mode = Mode(s)
	}

	if opts, ok := m["options"]; ok {
		lits, err := literals(opts)
		if err != nil {
			return spec, err
		}
		spec.Options = lits
	}

	return spec, nil
}

// literals converts a decoded sequence of scalars to their text form.
func literals(raw any) ([]string, error) {
	var items []any
	switch r := raw.(type) {
	case []any:
		items = r
	case []string:
		return slices.Clone(r), nil
	default:
		return nil, ErrBadOptions
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := literalText(item)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected %T", ErrBadOptions, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// literalText renders a scalar the way it compares against record values.
func literalText(v any) (string, bool) {
	switch l := v.(type) {
	case string:
		return l, true
	case bool:
		return strconv.FormatBool(l), true
	case int:
		return strconv.Itoa(l), true
	case int64:
		return strconv.FormatInt(l, 10), true
	case uint64:
		return strconv.FormatUint(l, 10), true
	case float64:
		return strconv.FormatFloat(l, 'f', -1, 64), true
	default:
		return "", false
	}
}
