// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/sieve/internal/attrs"
	"github.com/tfctl/sieve/internal/filters"
)

const vets = `[
	{"name":"Bob","city":"Porto","rating":3},
	{"name":"ana","city":"Lisbon","rating":4.5},
	{"name":"Eve","city":"Faro","rating":3.5}
]`

func columns(t *testing.T, value string) attrs.AttrList {
	t.Helper()
	var list attrs.AttrList
	require.NoError(t, list.Set(value))
	return list
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]any{
		{"name": "zebra", "count": 3.0, "score": 1.5},
		{"name": "Alpha", "count": 1.0, "score": 1.25},
		{"name": "beta", "count": 3.0, "score": 1.75},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{name: "ascending by name", spec: "name", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "descending by name", spec: "-name", wantOrder: []string{"zebra", "beta", "Alpha"}},
		{name: "case sensitive", spec: "!name", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "fractional numbers", spec: "score", wantOrder: []string{"Alpha", "zebra", "beta"}},
		{name: "multiple fields", spec: "-count,name", wantOrder: []string{"beta", "zebra", "Alpha"}},
		{name: "empty spec keeps order", spec: "", wantOrder: []string{"zebra", "Alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]any, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "float64 keeps fraction", value: 42.5, want: "42.5"},
		{name: "whole float64", value: 3.0, want: "3"},
		{name: "zero is a value", value: 0.0, want: "0"},
		{name: "bool false", value: false, want: "false"},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "empty string custom", value: "", emptyVal: "N/A", want: "N/A"},
		{name: "slice", value: []any{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Showing 3 of 5 records", Header(3, 5, false))
	assert.Equal(t, "Showing 1,200 of 12,345 records (filtered)", Header(1200, 12345, true))
}

func TestSpitJSON(t *testing.T) {
	records := filters.JSONRecords(gjson.Parse(vets))
	var buf bytes.Buffer

	err := Spit(&buf, records, columns(t, "name,rating,!city"), Options{Format: FormatJSON, Sort: "-rating"})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ana", got[0]["name"])
	assert.Equal(t, "Eve", got[1]["name"])
	assert.NotContains(t, got[0], "city")
}

func TestSpitYAML(t *testing.T) {
	records := filters.JSONRecords(gjson.Parse(vets))
	var buf bytes.Buffer

	err := Spit(&buf, records, columns(t, "name:Vet:u"), Options{Format: FormatYAML, Sort: "Vet"})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ANA", got[0]["Vet"])
	assert.Equal(t, "BOB", got[1]["Vet"])
}

func TestSpitRaw(t *testing.T) {
	records := filters.JSONRecords(gjson.Parse(vets))
	var buf bytes.Buffer

	require.NoError(t, Spit(&buf, records[1:2], nil, Options{Format: FormatRaw}))
	assert.JSONEq(t, `[{"name":"ana","city":"Lisbon","rating":4.5}]`, buf.String())

	buf.Reset()
	require.NoError(t, Spit(&buf, nil, nil, Options{Format: FormatRaw}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSpitUnknownFormat(t *testing.T) {
	err := Spit(&bytes.Buffer{}, nil, nil, Options{Format: "csv"})
	assert.ErrorContains(t, err, "csv")
}

func TestTableWriter(t *testing.T) {
	records := filters.JSONRecords(gjson.Parse(vets))
	rows := attrs.Project(records, columns(t, "name,city"))

	var buf bytes.Buffer
	TableWriter(&buf, rows, columns(t, "name,city"), Options{
		Titles:  true,
		Padding: 2,
		Header:  Header(3, 3, false),
		Footer:  "end",
	})

	out := buf.String()
	assert.Contains(t, out, "Showing 3 of 3 records")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "Lisbon")
	assert.Contains(t, out, "Faro")
	assert.Contains(t, out, "end")
	assert.NotContains(t, out, "rating")
}

func TestTableWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(&buf, nil, nil, Options{Header: Header(0, 4, true)})
	assert.Contains(t, buf.String(), "Showing 0 of 4 records (filtered)")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestTableWriterMissingValues(t *testing.T) {
	rows := []map[string]any{{"name": "Juan"}}
	var buf bytes.Buffer
	TableWriter(&buf, rows, columns(t, "name,city"), Options{})
	assert.Contains(t, buf.String(), "-")
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

func TestOptionsFromCommand(t *testing.T) {
	var got Options
	cmd := &cli.Command{
		Name: "apply",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: FormatText},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
			&cli.StringFlag{Name: "sort"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			got = OptionsFromCommand(cmd)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"apply", "--output", "json", "--color", "--titles", "--sort=-name"}))
	assert.Equal(t, FormatJSON, got.Format)
	assert.True(t, got.Titles)
	assert.Equal(t, 2, got.Padding)
	assert.Equal(t, "-name", got.Sort)
	assert.False(t, got.Color, "color needs a terminal")
}
