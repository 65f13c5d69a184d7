// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"slices"
)

// Kind discriminates the three filter variants.
type Kind string

const (
	KindString    Kind = "string"
	KindNumeric   Kind = "numeric"
	KindSelection Kind = "selection"
)

// Mode selects the comparison used by string and numeric filters.
type Mode string

const (
	ModeContains Mode = "contains"
	ModeRegex    Mode = "regex"
	ModeExact    Mode = "exact"

	ModeEq  Mode = "eq"
	ModeGt  Mode = "gt"
	ModeGte Mode = "gte"
	ModeLt  Mode = "lt"
	ModeLte Mode = "lte"
)

// AllValue is the choice that deactivates a selection filter. It is also
// honored for every other kind.
const AllValue = "all"

// stringModes and numericModes are the closed mode sets per kind.
var (
	stringModes  = []Mode{ModeContains, ModeRegex, ModeExact}
	numericModes = []Mode{ModeEq, ModeGt, ModeGte, ModeLt, ModeLte}
)

// numericSymbols is used when rendering labels.
var numericSymbols = map[Mode]string{
	ModeEq:  "=",
	ModeGt:  ">",
	ModeGte: ">=",
	ModeLt:  "<",
	ModeLte: "<=",
}

// Spec is one declared filter criterion. Mode is used by string and numeric
// kinds, Options by the selection kind.
type Spec struct {
	Field   string   `yaml:"field" json:"field"`
	Kind    Kind     `yaml:"kind" json:"kind"`
	Mode    Mode     `yaml:"mode,omitempty" json:"mode,omitempty"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// Label returns the caption a caller shows next to the filter's input.
func (s Spec) Label() string {
	switch s.Kind {
	case KindString:
		return fmt.Sprintf("%s %s", s.Field, s.Mode)
	case KindNumeric:
		if sym, ok := numericSymbols[s.Mode]; ok {
			return fmt.Sprintf("%s %s", s.Field, sym)
		}
	}
	return s.Field
}

// Choices returns the caller-facing choice list of a selection filter: the
// deactivating "all" followed by the declared options. Other kinds have no
// choices.
func (s Spec) Choices() []string {
	if s.Kind != KindSelection {
		return nil
	}
	return append([]string{AllValue}, s.Options...)
}

// String renders the spec in its inline declaration form.
func (s Spec) String() string {
	if s.Kind == KindSelection {
		return fmt.Sprintf("%s:%s:%v", s.Field, s.Kind, s.Options)
	}
	return fmt.Sprintf("%s:%s:%s", s.Field, s.Kind, s.Mode)
}

// validModes returns the mode set of k, or nil for kinds without modes.
func validModes(k Kind) []Mode {
	switch k {
	case KindString:
		return stringModes
	case KindNumeric:
		return numericModes
	}
	return nil
}

// check reports why s cannot be evaluated, or nil.
func (s Spec) check() error {
	switch s.Kind {
	case KindString, KindNumeric:
		if !slices.Contains(validModes(s.Kind), s.Mode) {
			return fmt.Errorf("%w %q for %s filter", ErrUnknownMode, s.Mode, s.Kind)
		}
	case KindSelection:
		if s.Options == nil {
			return ErrBadOptions
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, s.Kind)
	}
	return nil
}
