package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"cukedash/internal/summary"
)

const minNameWidth = 20

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		styles.Selected = styles.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return styles
}

// columnsFor returns the columns of a level, giving spare width to the name column.
func columnsFor(level Level, width int) []table.Column {
	var fixed []table.Column
	name := "Feature"
	switch level {
	case LevelScenarios:
		name = "Scenario"
		fixed = []table.Column{
			{Title: "Status", Width: 9},
			{Title: "Steps", Width: 6},
			{Title: "Duration", Width: 10},
			{Title: "Tags", Width: 24},
		}
	case LevelSteps:
		name = "Step"
		fixed = []table.Column{
			{Title: "Status", Width: 10},
			{Title: "Duration", Width: 10},
			{Title: "Error", Width: 40},
		}
	default:
		fixed = []table.Column{
			{Title: "Status", Width: 7},
			{Title: "Total", Width: 6},
			{Title: "Passed", Width: 7},
			{Title: "Failed", Width: 7},
			{Title: "Skipped", Width: 8},
			{Title: "Duration", Width: 10},
		}
	}
	used := 0
	for _, column := range fixed {
		used += column.Width + 2
	}
	nameWidth := max(width-used-2, minNameWidth)
	return append([]table.Column{{Title: name, Width: nameWidth}}, fixed...)
}

// rowsFor converts the current level of state into table rows.
func rowsFor(state State) []table.Row {
	switch state.Level {
	case LevelScenarios:
		return scenarioRows(state.currentFeature().Scenarios)
	case LevelSteps:
		return stepRows(state.currentScenario().Steps)
	default:
		return featureRows(state.Summary.Features)
	}
}

func featureRows(features []summary.FeatureSummary) []table.Row {
	rows := make([]table.Row, 0, len(features))
	for _, feature := range features {
		rows = append(rows, table.Row{
			feature.Name,
			string(feature.Status),
			fmtInt(feature.TotalScenarios),
			fmtInt(feature.Passed),
			fmtInt(feature.Failed),
			fmtInt(feature.Skipped),
			summary.FormatDuration(feature.Duration),
		})
	}
	return rows
}

func scenarioRows(scenarios []summary.ScenarioSummary) []table.Row {
	rows := make([]table.Row, 0, len(scenarios))
	for _, scenario := range scenarios {
		rows = append(rows, table.Row{
			scenario.Name,
			string(scenario.Status),
			fmtInt(len(scenario.Steps)),
			summary.FormatDuration(scenario.Duration),
			strings.Join(scenario.Tags, " "),
		})
	}
	return rows
}

func stepRows(steps []summary.StepSummary) []table.Row {
	rows := make([]table.Row, 0, len(steps))
	for _, step := range steps {
		message := ""
		if step.ErrorMessage != nil {
			message = firstLine(*step.ErrorMessage)
		}
		rows = append(rows, table.Row{
			strings.TrimSpace(step.Keyword) + " " + step.Name,
			string(step.Status),
			summary.FormatDuration(step.Duration),
			message,
		})
	}
	return rows
}
