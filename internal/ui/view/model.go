// Package view renders report summaries in the terminal.
package view

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cukedash/internal/summary"
)

const defaultWidth = 100

// Model is a Bubble Tea drill-down browser over a report summary.
type Model struct {
	state   State
	table   table.Model
	width   int
	noColor bool
	notice  string
}

// ReportMsg delivers a reloaded summary, or the error that prevented it.
type ReportMsg struct {
	Summary summary.ReportSummary
	Err     error
}

// Options configures the view model.
type Options struct {
	NoColor bool
}

// NewModel constructs a view model positioned on the feature list.
func NewModel(s summary.ReportSummary, opts Options) Model {
	t := table.New(
		table.WithColumns(columnsFor(LevelFeatures, defaultWidth)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	m := Model{
		state:   State{Summary: s},
		table:   t,
		width:   defaultWidth,
		noColor: opts.NoColor,
	}
	return m.refresh()
}

// State returns the current navigation state.
func (m Model) State() State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes; other keys move the table cursor.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case ReportMsg:
		if typed.Err != nil {
			m.notice = "Reload failed: " + firstLine(typed.Err.Error())
			return m, nil
		}
		m.notice = ""
		m.state = m.state.Replace(typed.Summary)
		return m.refresh(), nil
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.table.SetHeight(max(typed.Height-7, 3))
		return m.refresh(), nil
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			next := m.state.Enter(m.table.Cursor())
			if next.Level == m.state.Level {
				return m, nil
			}
			m.state = next
			return m.refresh(), nil
		case "esc", "backspace":
			if m.state.Level == LevelFeatures {
				return m, nil
			}
			m.state = m.state.Back()
			return m.refresh(), nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.state.Summary, m.noColor),
		renderBreadcrumb(m.state, m.noColor),
		m.table.View(),
		renderDetail(m.state, m.table.Cursor(), m.width, m.noColor),
		renderNotice(m.notice, m.noColor),
		renderHelp(m.state, m.noColor),
	)
}

// refresh rebuilds the table for the current level. Rows are cleared first
// so the table never renders rows against columns of another level.
func (m Model) refresh() Model {
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(m.state.Level, m.width))
	m.table.SetRows(rowsFor(m.state))
	m.table.SetCursor(m.state.Cursor())
	return m
}
