package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cukedash/internal/summary"
)

// RenderReport renders a static text summary: totals, one line per feature,
// and the failed scenarios with their first error line.
func RenderReport(s summary.ReportSummary, noColor bool) string {
	var b strings.Builder
	b.WriteString(renderHeader(s, noColor))
	b.WriteString("\n")
	b.WriteString("Scenarios: ")
	b.WriteString(stylize(fmtInt(s.PassedScenarios)+" passed", noColor, statusColor(summary.StatusPassed)))
	b.WriteString(", ")
	b.WriteString(stylize(fmtInt(s.FailedScenarios)+" failed", noColor, statusColor(summary.StatusFailed)))
	b.WriteString(", ")
	b.WriteString(stylize(fmtInt(s.SkippedScenarios)+" skipped", noColor, statusColor(summary.StatusSkipped)))
	b.WriteString("\n")
	b.WriteString("Steps: " + fmtInt(s.TotalSteps) +
		" (" + fmtInt(s.PassedSteps) + " passed, " + fmtInt(s.FailedSteps) + " failed, " +
		fmtInt(s.SkippedSteps) + " skipped)\n")

	if len(s.Features) == 0 {
		b.WriteString("No features in report.\n")
		return b.String()
	}

	b.WriteString("\n")
	nameStyle := lipgloss.NewStyle().Bold(!noColor)
	for _, feature := range s.Features {
		b.WriteString(stylizeStatus(feature.Status, noColor))
		b.WriteString("  ")
		b.WriteString(nameStyle.Render(feature.Name))
		b.WriteString(" (" + fmtInt(feature.Passed) + "/" + fmtInt(feature.TotalScenarios) + " passed, " +
			summary.FormatDuration(feature.Duration) + ")\n")
		for _, scenario := range feature.FailedScenarios() {
			b.WriteString("    x " + scenario.Name)
			if scenario.ErrorMessage != nil {
				b.WriteString(": " + firstLine(*scenario.ErrorMessage))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
