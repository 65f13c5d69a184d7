// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
)

// Identical is printed when filtering removed nothing.
const Identical = "No records were filtered out."

// Diff writes the delta between the input collection and what survived the
// filters. Removed records show as deletions.
func Diff(w io.Writer, before, after []filters.JSONRecord, coloring bool) error {
	if w == nil {
		w = os.Stdout
	}
	log.Debugf("diffing: before=%d, after=%d", len(before), len(after))

	left, err := decode(before)
	if err != nil {
		return err
	}
	right, err := decode(after)
	if err != nil {
		return err
	}

	delta := gojsondiff.New().CompareArrays(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, Identical)
		return nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	}

	diffString, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return fmt.Errorf("failed to format delta: %w", err)
	}

	fmt.Fprint(w, diffString)
	return nil
}

// decode turns records back into plain values for comparison.
func decode(records []filters.JSONRecord) ([]any, error) {
	out := make([]any, len(records))
	for i, r := range records {
		if err := json.Unmarshal([]byte(r.Raw), &out[i]); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i, err)
		}
	}
	return out, nil
}
