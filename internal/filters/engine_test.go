// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*
var testDataFS embed.FS

// testApplyCase represents a single test case for TestApply.
type testApplyCase struct {
	Name   string            `yaml:"name"`
	Decls  []any             `yaml:"decls"`
	Active map[string]string `yaml:"active"`
	Want   []string          `yaml:"want"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

// loadRecords parses the shared record fixture.
func loadRecords(t *testing.T) []JSONRecord {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/records.json")
	require.NoError(t, err)
	return JSONRecords(gjson.ParseBytes(data))
}

// mustSet parses and validates declarations, failing the test on any error.
func mustSet(t *testing.T, decls ...any) *Set {
	t.Helper()
	specs, err := ParseDecls(decls)
	require.NoError(t, err)
	set, err := Validate(specs)
	require.NoError(t, err)
	return set
}

// names projects records onto their name field.
func names[R Record](records []R) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		v, _ := r.Lookup("name")
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func TestApply(t *testing.T) {
	var tests []testApplyCase
	require.NoError(t, loadTestData("apply.yaml", &tests))
	require.NotEmpty(t, tests)

	records := loadRecords(t)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			set := mustSet(t, tt.Decls...)
			want := tt.Want
			if want == nil {
				want = []string{}
			}

			got := Apply(records, set, Values(tt.Active))
			assert.Equal(t, want, names(got))
		})
	}
}

func TestApplyScenarios(t *testing.T) {
	records := []MapRecord{
		{"name": "Ana", "rating": 4},
		{"name": "Bob", "rating": 2},
	}

	t.Run("case-insensitive substring", func(t *testing.T) {
		set := mustSet(t, []any{"name", "string", "contains"})
		got := Apply(records, set, Values{"name": "an"})
		assert.Equal(t, []MapRecord{{"name": "Ana", "rating": 4}}, got)
	})

	t.Run("numeric gte", func(t *testing.T) {
		set := mustSet(t, []any{"rating", "numeric", "gte"})
		got := Apply(records, set, Values{"rating": "3"})
		assert.Equal(t, []MapRecord{{"name": "Ana", "rating": 4}}, got)
	})

	t.Run("selection all", func(t *testing.T) {
		typed := []MapRecord{
			{"name": "Ana", "type": "public"},
			{"name": "Bob", "type": "private"},
		}
		set := mustSet(t, []any{"type", "selection", []any{"public", "private"}})
		got := Apply(typed, set, Values{"type": "all"})
		assert.Equal(t, typed, got)
	})
}

func TestApplyIdentity(t *testing.T) {
	records := loadRecords(t)
	set := mustSet(t,
		[]any{"name", "string", "regex"},
		[]any{"rating", "numeric", "gte"},
		[]any{"type", "selection", []any{"public", "private"}},
	)

	for _, active := range []Values{nil, {}, {"name": "", "type": "all"}, {"other": "x"}} {
		got := Apply(records, set, active)
		require.Len(t, got, len(records))
		assert.Same(t, &records[0], &got[0], "identity returns the input collection")
	}

	assert.Empty(t, Apply([]JSONRecord{}, set, Values{"name": "a"}))
	assert.Nil(t, Apply[JSONRecord](nil, set, nil))
}

func TestApplyNilSet(t *testing.T) {
	records := loadRecords(t)
	got := Apply(records, nil, Values{"name": "Ana"})
	assert.Len(t, got, len(records))
}

func TestApplyAndComposition(t *testing.T) {
	records := loadRecords(t)
	s1 := []any{"name", "string", "contains"}
	s2 := []any{"avgPrice", "numeric", "lt"}

	pairs := []Values{
		{"name": "a", "avgPrice": "60"},
		{"name": "b", "avgPrice": "100"},
		{"name": "e", "avgPrice": "10"},
		{"name": "(", "avgPrice": "oops"},
	}

	for _, active := range pairs {
		both := Apply(records, mustSet(t, s1, s2), active)
		first := Apply(records, mustSet(t, s1), Values{"name": active["name"]})
		second := Apply(records, mustSet(t, s2), Values{"avgPrice": active["avgPrice"]})

		var intersection []string
		for _, n := range names(first) {
			for _, m := range names(second) {
				if n == m {
					intersection = append(intersection, n)
				}
			}
		}
		if intersection == nil {
			intersection = []string{}
		}
		assert.Equal(t, intersection, names(both), "active=%v", active)
	}
}

func TestApplySubsequence(t *testing.T) {
	records := loadRecords(t)
	original := names(records)
	set := mustSet(t,
		[]any{"city", "string", "regex"},
		[]any{"rating", "numeric", "gt"},
	)

	got := Apply(records, set, Values{"city": "a", "rating": "1"})

	// Each survivor appears in the input, later than the previous one.
	pos := -1
	for _, n := range names(got) {
		next := -1
		for i := pos + 1; i < len(original); i++ {
			if original[i] == n {
				next = i
				break
			}
		}
		require.NotEqual(t, -1, next, "%s out of order or not in input", n)
		pos = next
	}
	assert.Equal(t, original, names(records), "input untouched")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := []MapRecord{
		{"name": "b"}, {"name": "a"}, {"name": "ab"},
	}
	snapshot := append([]MapRecord(nil), records...)
	set := mustSet(t, []any{"name", "string", "contains"})

	got := Apply(records, set, Values{"name": "a"})
	got[0] = MapRecord{"name": "changed"}

	assert.Equal(t, snapshot, records)
}

func TestApplyInterfaceRecords(t *testing.T) {
	records := []Record{
		MapRecord{"name": "Ana"},
		nil,
		JSONRecord{gjson.Parse(`{"name":"Andres"}`)},
		MapRecord{"name": nil},
	}
	set := mustSet(t, []any{"name", "string", "contains"})

	got := Apply(records, set, Values{"name": "an"})
	assert.Equal(t, []string{"Ana", "Andres"}, names(got))
}

func TestExplain(t *testing.T) {
	records := loadRecords(t)
	set := mustSet(t,
		[]any{"name", "string", "regex"},
		[]any{"rating", "numeric", "gte"},
		[]any{"type", "selection", []any{"public", "private"}},
		[]any{"city", "string", "exact"},
	)

	got, report := Explain(records, set, Values{
		"name":   "[",
		"rating": "4",
		"type":   "all",
	})

	assert.Equal(t, []string{"Ana", "Diana"}, names(got))
	assert.True(t, report.Filtered())

	require.Len(t, report.Applied, 1)
	assert.Equal(t, "rating", report.Applied[0].Field)

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "type", report.Skipped[0].Field)
	assert.Equal(t, "city", report.Skipped[1].Field)

	require.Len(t, report.Degraded, 1)
	assert.Equal(t, "name", report.Degraded[0].Spec.Field)
	assert.ErrorIs(t, report.Degraded[0].Err, ErrInvalidPattern)

	_, report = Explain(records, set, Values{"rating": "x"})
	assert.False(t, report.Filtered())
	require.Len(t, report.Degraded, 1)
	assert.ErrorIs(t, report.Degraded[0].Err, ErrNotNumeric)
}

func TestCompileUnknownKind(t *testing.T) {
	_, err := compile(Spec{Field: "x", Kind: "bogus"}, "v")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = compile(Spec{Field: "x", Kind: KindString, Mode: "bogus"}, "v")
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = compile(Spec{Field: "x", Kind: KindNumeric, Mode: "bogus"}, "1")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestApplyConcurrent(t *testing.T) {
	records := loadRecords(t)
	set := mustSet(t, []any{"rating", "numeric", "gte"})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(threshold int) {
			defer wg.Done()
			active := Values{"rating": fmt.Sprint(threshold % 6)}
			_ = Apply(records, set, active)
		}(i)
	}
	wg.Wait()
}
