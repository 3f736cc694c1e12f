package view

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cukedash/internal/summary"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// truncate collapses whitespace and cuts text to limit runes.
func truncate(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if limit <= 3 || len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// firstLine returns the first line of a multi-line error message.
func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return line
}

// statusColor maps a status to its terminal color.
func statusColor(status summary.Status) lipgloss.Color {
	switch status {
	case summary.StatusPassed:
		return lipgloss.Color("34")
	case summary.StatusFailed:
		return lipgloss.Color("160")
	default:
		return lipgloss.Color("178")
	}
}

// stylizeStatus colors a status label.
func stylizeStatus(status summary.Status, noColor bool) string {
	label := string(status)
	if label == "" {
		label = "unknown"
	}
	return stylize(label, noColor, statusColor(status))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
