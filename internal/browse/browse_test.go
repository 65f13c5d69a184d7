// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package browse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tfctl/sieve/internal/attrs"
	"github.com/tfctl/sieve/internal/filters"
)

const vets = `[
	{"name":"Ana","rating":4.5,"type":"public"},
	{"name":"Bob","rating":3,"type":"private"},
	{"name":"Diana","rating":5,"type":"private"},
	{"name":"Eve","rating":2,"type":"public"}
]`

func newModel(t *testing.T, initial filters.Values) Model {
	t.Helper()
	set, err := filters.Validate([]filters.Spec{
		{Field: "name", Kind: filters.KindString, Mode: filters.ModeContains},
		{Field: "rating", Kind: filters.KindNumeric, Mode: filters.ModeGte},
		{Field: "type", Kind: filters.KindSelection, Options: []string{"public", "private"}},
	})
	require.NoError(t, err)

	var list attrs.AttrList
	require.NoError(t, list.Set("name,rating"))

	return New(filters.JSONRecords(gjson.Parse(vets)), set, list, initial)
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func names(records []filters.JSONRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Get("name").String())
	}
	return out
}

func TestNewShowsEverything(t *testing.T) {
	m := newModel(t, nil)
	assert.Len(t, m.Results(), 4)
	assert.False(t, m.Report().Filtered())
	assert.Contains(t, m.View(), "Showing 4 of 4 records")
}

func TestTypingFilters(t *testing.T) {
	m := newModel(t, nil)

	m = send(m, runes("a"))
	assert.Equal(t, []string{"Ana", "Diana"}, names(m.Results()))
	assert.Equal(t, filters.Values{"name": "a"}, m.Values())

	m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Len(t, m.Results(), 4)
	assert.Empty(t, m.Values())
}

func TestFocusAndNumeric(t *testing.T) {
	m := newModel(t, nil)

	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, runes("4"))
	assert.Equal(t, []string{"Ana", "Diana"}, names(m.Results()))

	// Non-numeric input degrades the filter to inactive.
	m = send(m, runes("x"))
	assert.Len(t, m.Results(), 4)
	require.Len(t, m.Report().Degraded, 1)
	assert.Contains(t, m.View(), "ignored")
}

func TestSelectionCycles(t *testing.T) {
	m := newModel(t, nil)

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, []string{"Ana", "Eve"}, names(m.Results()))
	assert.Contains(t, m.View(), "< public >")

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, []string{"Bob", "Diana"}, names(m.Results()))

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Len(t, m.Results(), 4, "wraps back to all")

	m = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, filters.Values{"type": "private"}, m.Values())
}

func TestInitialValues(t *testing.T) {
	initial := filters.Values{"type": "private", "rating": "4"}
	m := newModel(t, initial)

	assert.Equal(t, []string{"Diana"}, names(m.Results()))
	assert.Contains(t, m.View(), "< private >")
	assert.Contains(t, m.View(), "(filtered)")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Len(t, m.Results(), 4)
	assert.Empty(t, m.Values())
	assert.Equal(t, filters.Values{"type": "private", "rating": "4"}, initial, "initial values are not modified")
}

func TestToggleAndQuit(t *testing.T) {
	m := newModel(t, nil)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Contains(t, m.View(), "Filters hidden")
	assert.NotContains(t, m.View(), "< all >")

	// Edits are ignored while the panel is hidden.
	m = send(m, runes("zzz"))
	assert.Len(t, m.Results(), 4)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Contains(t, m.View(), "< all >")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).Accepted())
}

func TestViewHeightLimit(t *testing.T) {
	m := newModel(t, nil)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 9})

	view := m.View()
	assert.Contains(t, view, "name=Ana")
	assert.Contains(t, view, "name=Bob")
	assert.NotContains(t, view, "name=Diana")
	assert.Contains(t, view, "... 2 more")
}

func TestEmptySet(t *testing.T) {
	m := New(filters.JSONRecords(gjson.Parse(vets)), nil, nil, nil)
	m = send(m, runes("a"), tea.KeyMsg{Type: tea.KeyTab})
	assert.Len(t, m.Results(), 4)
}
