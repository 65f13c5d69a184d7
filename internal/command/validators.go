// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
	"strings"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// OneOf accepts only the listed string values.
func OneOf(valid ...string) FlagValidatorType {
	return func(value any) error {
		s, ok := value.(string)
		if !ok || !slices.Contains(valid, s) {
			return fmt.Errorf("must be one of %v", valid)
		}
		return nil
	}
}

// SetValidator accepts field=value with a non-empty field.
func SetValidator(value any) error {
	s, _ := value.(string)
	field, _, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return fmt.Errorf("%q must be field=value", s)
	}
	return nil
}
