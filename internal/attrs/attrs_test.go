// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"embed"
	"fmt"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/sieve/internal/filters"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testSetCase represents a single test case for TestAttrList_Set.
type testSetCase struct {
	Name      string `yaml:"name"`
	Initial   []Attr `yaml:"initial"`
	Value     string `yaml:"value"`
	WantAttrs []Attr `yaml:"wantAttrs"`
	WantErr   bool   `yaml:"wantErr"`
}

// testTransformCase represents a single test case for TestAttr_Transform.
type testTransformCase struct {
	Name  string `yaml:"name"`
	Spec  string `yaml:"spec"`
	Input any    `yaml:"input"`
	Want  any    `yaml:"want"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestAttrList_Set(t *testing.T) {
	var tests []testSetCase
	require.NoError(t, loadTestData("set_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			list := AttrList(tt.Initial)
			err := list.Set(tt.Value)
			if tt.WantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if len(tt.WantAttrs) == 0 {
				assert.Empty(t, list)
				return
			}
			assert.Equal(t, tt.WantAttrs, []Attr(list))
		})
	}
}

func TestAttr_Transform(t *testing.T) {
	var tests []testTransformCase
	require.NoError(t, loadTestData("transform_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			attr := Attr{Key: "k", TransformSpec: tt.Spec}
			assert.Equal(t, tt.Want, attr.Transform(tt.Input))
		})
	}
}

func TestAttr_Transform_Time(t *testing.T) {
	input := "2024-01-15T10:00:00Z"
	parsed, err := time.Parse(time.RFC3339, input)
	require.NoError(t, err)

	local := Attr{TransformSpec: "t"}
	assert.Equal(t, parsed.Local().Format("2006-01-02T15:04:05MST"), fmt.Sprintf("%v", local.Transform(input)))

	ago := Attr{TransformSpec: "T"}
	assert.Equal(t, humanize.Time(parsed), ago.Transform(input))
}

func TestAttrList_String(t *testing.T) {
	list := AttrList{
		{Key: "*", Title: "*", TransformSpec: "U"},
		{Key: "name", Title: "Vet", Include: true, TransformSpec: "10"},
		{Key: "city", Title: "city"},
	}
	assert.Equal(t, "*:*:U,name:Vet:10,!city:city:", list.String())

	var round AttrList
	require.NoError(t, round.Set(list.String()))
	assert.Equal(t, list, round)
}

func TestTitles(t *testing.T) {
	list := AttrList{
		{Key: "name", Title: "Vet", Include: true},
		{Key: "city", Title: "city"},
		{Key: "rating", Title: "rating", Include: true},
	}
	assert.Equal(t, []string{"Vet", "rating"}, list.Titles())
}

func TestColumns(t *testing.T) {
	first := gjson.Parse(`{"name":"Ana","city":"Lisbon","owner.id":7,"rating":4.5}`)

	tests := []struct {
		name   string
		value  string
		titles []string
	}{
		{name: "defaults in document order", value: "", titles: []string{"name", "city", "owner.id", "rating"}},
		{name: "defaults minus exclusion", value: "!city", titles: []string{"name", "owner.id", "rating"}},
		{name: "named columns replace defaults", value: "rating,name:Vet", titles: []string{"rating", "Vet"}},
		{name: "global keeps defaults", value: "*::u", titles: []string{"name", "city", "owner.id", "rating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Columns(tt.value, first)
			require.NoError(t, err)
			assert.Equal(t, tt.titles, list.Titles())
		})
	}

	_, err := Columns("a:b:c:d", first)
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	records := filters.JSONRecords(gjson.Parse(`[
		{"name":"Ana","owner":{"name":"Rui"},"city":"Lisbon","tags":["a","b"]},
		{"name":"Bob","city":null}
	]`))

	var list AttrList
	require.NoError(t, list.Set("*::u,name,owner.name:Owner,!city,tags"))

	rows := Project(records, list)
	require.Len(t, rows, 2)

	assert.Equal(t, "ANA", rows[0]["name"])
	assert.Equal(t, "RUI", rows[0]["Owner"])
	assert.Equal(t, "LISBON", rows[0]["city"], "sort-only columns are projected")
	assert.Equal(t, []any{"a", "b"}, rows[0]["tags"])
	assert.NotContains(t, rows[0], "*")

	assert.Equal(t, "BOB", rows[1]["name"])
	assert.Nil(t, rows[1]["Owner"])
	assert.Nil(t, rows[1]["city"])
}
