package view

import (
	"github.com/charmbracelet/lipgloss"

	"cukedash/internal/summary"
)

// renderHeader renders the report totals line.
func renderHeader(s summary.ReportSummary, noColor bool) string {
	line := "Cucumber report | Features: " + fmtInt(s.TotalFeatures) +
		" | Scenarios: " + fmtInt(s.TotalScenarios) +
		" | Pass rate: " + summary.FormatPassRate(s.PassRate) +
		" | Duration: " + summary.FormatDuration(s.TotalDuration)
	if noColor {
		return line
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(line)
}

// renderBreadcrumb renders the navigation path.
func renderBreadcrumb(state State, noColor bool) string {
	return stylize(state.Breadcrumb(), noColor, lipgloss.Color("242"))
}

// renderDetail shows the full error of the selected failed step or scenario.
func renderDetail(state State, cursor int, width int, noColor bool) string {
	var message *string
	switch state.Level {
	case LevelScenarios:
		scenarios := state.currentFeature().Scenarios
		if cursor >= 0 && cursor < len(scenarios) {
			message = scenarios[cursor].ErrorMessage
		}
	case LevelSteps:
		steps := state.currentScenario().Steps
		if cursor >= 0 && cursor < len(steps) {
			message = steps[cursor].ErrorMessage
		}
	}
	if message == nil {
		return ""
	}
	return stylize("Error: "+truncate(*message, max(width-7, 20)), noColor, statusColor(summary.StatusFailed))
}

func renderNotice(notice string, noColor bool) string {
	if notice == "" {
		return ""
	}
	return stylize(notice, noColor, statusColor(summary.StatusFailed))
}

// renderHelp renders the key bindings for the current level.
func renderHelp(state State, noColor bool) string {
	help := "enter: open | q: quit"
	switch state.Level {
	case LevelScenarios:
		help = "enter: steps | esc: back | q: quit"
	case LevelSteps:
		help = "esc: back | q: quit"
	}
	return stylize(help, noColor, lipgloss.Color("244"))
}
