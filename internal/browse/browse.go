// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tfctl/sieve/internal/attrs"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
	"github.com/tfctl/sieve/internal/output"
)

// chrome is the number of lines the view spends on everything but rows.
const chrome = 4

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d75f5f"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// control is the panel entry of one spec. Text kinds edit through text;
// selections step through choices.
type control struct {
	spec    filters.Spec
	text    textinput.Model
	choices []string
	choice  int
}

func (c control) value() string {
	if c.choices != nil {
		return c.choices[c.choice]
	}
	return c.text.Value()
}

// Model is the bubbletea model of the filter browser.
type Model struct {
	collection []filters.JSONRecord
	set        *filters.Set
	values     filters.Values
	list       attrs.AttrList

	controls []control
	focus    int
	hidden   bool
	height   int

	results  []filters.JSONRecord
	report   filters.Report
	accepted bool
}

// New builds a browser over collection. initial seeds the panel and is not
// modified.
func New(collection []filters.JSONRecord, set *filters.Set, list attrs.AttrList, initial filters.Values) Model {
	m := Model{
		collection: collection,
		set:        set,
		values:     filters.Values{},
		list:       list,
	}
	maps.Copy(m.values, initial)

	for _, spec := range set.Specs() {
		c := control{spec: spec}
		current := m.values[spec.Field]

		if spec.Kind == filters.KindSelection {
			c.choices = spec.Choices()
			if i := slices.Index(c.choices, current); i > 0 {
				c.choice = i
			}
		} else {
			ti := textinput.New()
			ti.Placeholder = spec.Label()
			ti.Prompt = ""
			ti.CharLimit = 256
			ti.Width = 24
			ti.SetValue(current)
			c.text = ti
		}
		m.controls = append(m.controls, c)
	}

	m.setFocus(0)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.accepted = true
			return m, tea.Quit
		case "ctrl+f":
			m.hidden = !m.hidden
			return m, nil
		case "ctrl+r":
			m.values.Reset()
			for i := range m.controls {
				m.controls[i].choice = 0
				if m.controls[i].choices == nil {
					m.controls[i].text.SetValue("")
				}
			}
			m.refresh()
			return m, nil
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		}

		if m.hidden || len(m.controls) == 0 {
			return m, nil
		}

		c := &m.controls[m.focus]
		if c.choices != nil {
			switch msg.String() {
			case "right", "l", " ":
				c.choice = (c.choice + 1) % len(c.choices)
			case "left", "h":
				c.choice = (c.choice + len(c.choices) - 1) % len(c.choices)
			default:
				return m, nil
			}
			m.edit(*c)
			return m, nil
		}

		before := c.text.Value()
		var cmd tea.Cmd
		c.text, cmd = c.text.Update(msg)
		if c.text.Value() != before {
			m.edit(*c)
		}
		return m, cmd
	}

	if len(m.controls) > 0 && m.controls[m.focus].choices == nil {
		var cmd tea.Cmd
		m.controls[m.focus].text, cmd = m.controls[m.focus].text.Update(msg)
		return m, cmd
	}
	return m, nil
}

// edit stores the control's value and re-runs the filters.
func (m *Model) edit(c control) {
	value := c.value()
	if value == "" || value == filters.AllValue {
		m.values.Clear(c.spec.Field)
	} else {
		m.values.Set(c.spec.Field, value)
	}

	// Controls of the same field share one value.
	for i := range m.controls {
		other := &m.controls[i]
		if other.spec.Field != c.spec.Field || other.value() == value {
			continue
		}
		if other.choices != nil {
			other.choice = max(slices.Index(other.choices, value), 0)
		} else {
			other.text.SetValue(value)
		}
	}

	m.refresh()
}

// refresh recomputes the results from the current values.
func (m *Model) refresh() {
	m.results, m.report = filters.Explain(m.collection, m.set, m.values)
	log.Tracef("browse refresh: values=%v, results=%d", m.values, len(m.results))
}

// setFocus moves focus to control i, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.controls)
	if n == 0 {
		return nil
	}
	m.focus = (i%n + n) % n

	var cmd tea.Cmd
	for j := range m.controls {
		if m.controls[j].choices != nil {
			continue
		}
		if j == m.focus {
			cmd = m.controls[j].text.Focus()
		} else {
			m.controls[j].text.Blur()
		}
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.hidden {
		b.WriteString(titleStyle.Render("Filters hidden (ctrl+f to show)") + "\n")
	} else {
		b.WriteString(titleStyle.Render("Filters (tab to move, ctrl+f to hide, ctrl+r to reset, enter to accept, esc to quit)") + "\n")
		for i, c := range m.controls {
			b.WriteString(m.renderControl(i, c) + "\n")
		}
	}

	b.WriteString(titleStyle.Render(output.Header(len(m.results), len(m.collection), m.report.Filtered())) + "\n")

	rows := attrs.Project(m.results, m.list)
	titles := m.list.Titles()
	limit := len(rows)
	if m.height > 0 {
		used := chrome
		if !m.hidden {
			used += len(m.controls)
		}
		limit = min(limit, max(m.height-used, 0))
	}

	for _, row := range rows[:limit] {
		cells := make([]string, 0, len(titles))
		for _, title := range titles {
			cells = append(cells, fmt.Sprintf("%s=%s", title, output.InterfaceToString(row[title], "-")))
		}
		b.WriteString(strings.Join(cells, "  ") + "\n")
	}
	if limit < len(rows) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("... %d more", len(rows)-limit)) + "\n")
	}

	return b.String()
}

func (m Model) renderControl(i int, c control) string {
	cursor := "  "
	label := c.spec.Label()
	if i == m.focus {
		cursor = focusStyle.Render("> ")
		label = focusStyle.Render(label)
	}

	var field string
	if c.choices != nil {
		field = fmt.Sprintf("< %s >", c.choices[c.choice])
	} else {
		field = c.text.View()
	}

	line := fmt.Sprintf("%s%-20s %s", cursor, label, field)
	for _, d := range m.report.Degraded {
		if d.Spec.Field == c.spec.Field {
			line += " " + degradedStyle.Render("(ignored: "+d.Err.Error()+")")
			break
		}
	}
	return line
}

// Values returns a copy of the current values.
func (m Model) Values() filters.Values {
	return maps.Clone(m.values)
}

// Results returns the records that currently pass the filters.
func (m Model) Results() []filters.JSONRecord {
	return m.results
}

// Report returns the report of the last filter pass.
func (m Model) Report() filters.Report {
	return m.report
}

// Accepted reports whether the browser was closed with enter.
func (m Model) Accepted() bool {
	return m.accepted
}

// Run shows the browser until the user quits and returns the final model. A
// nil in reads keys from the controlling terminal, which is needed when the
// collection itself came from stdin.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) (Model, error) {
	input := tea.WithInputTTY()
	if in != nil {
		input = tea.WithInput(in)
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		input,
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("browser failed: %w", err)
	}
	return final.(Model), nil
}
