// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/sieve/internal/driller"
)

// Record is the read-only view the engine needs of a collection element.
// Lookup returns the value of the named attribute and whether it is present;
// a present nil is treated like an absent attribute.
type Record interface {
	Lookup(field string) (any, bool)
}

// JSONRecord is a record backed by a parsed JSON object. Field names are
// dotted paths with optional array indexes, e.g. "owner.name" or "tags[0]".
type JSONRecord struct {
	gjson.Result
}

// Lookup implements Record.
func (r JSONRecord) Lookup(field string) (any, bool) {
	value := driller.Driller(r.Result, field)
	if !value.Exists() || value.Type == gjson.Null {
		return nil, false
	}
	return value.Value(), true
}

// JSONRecords wraps each element of a JSON array as a JSONRecord. A
// non-array document yields a single record.
func JSONRecords(doc gjson.Result) []JSONRecord {
	if !doc.Exists() {
		return nil
	}
	if !doc.IsArray() {
		return []JSONRecord{{doc}}
	}
	items := doc.Array()
	records := make([]JSONRecord, len(items))
	for i, item := range items {
		records[i] = JSONRecord{item}
	}
	return records
}

// MapRecord is a record backed by a decoded map. Field names are plain keys.
type MapRecord map[string]any

// Lookup implements Record.
func (r MapRecord) Lookup(field string) (any, bool) {
	value, ok := r[field]
	return value, ok && value != nil
}

// textOf renders a field value in the text form string predicates use.
func textOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}

	if n, ok := toFloat64(value); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}

// numberOf returns the numeric form of a field value. Strings count when they
// hold a finite number.
func numberOf(value any) (float64, bool) {
	if n, ok := toFloat64(value); ok {
		return n, !math.IsNaN(n)
	}
	if s, ok := value.(string); ok {
		return parseNumber(s)
	}
	return 0, false
}

// parseNumber parses user or record text as a finite decimal number. NaN,
// infinities and hex floats never parse.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// toFloat64 attempts to normalize various numeric types to float64.
// Returns (0, false) if v is not a recognized numeric type.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
