package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"cukedash/internal/summary"
)

// Email holds the data for the HTML body of a report email.
type Email struct {
	Summary        summary.ReportSummary
	SentAt         time.Time
	AttachmentName string
}

// EmailBody renders the email sent alongside an exported report.
func EmailBody(email Email) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		s := email.Summary
		hw.raw(`<!doctype html><html><body style="font-family: Arial, sans-serif; color: #1f2933;">`)
		hw.raw(`<h2 style="color: #1f6feb;">Cucumber Test Report</h2>`)
		hw.printf(`<p>Date: %s</p>`, email.SentAt.Format("2006-01-02 15:04"))
		hw.raw(`<table style="border-collapse: collapse;">`)
		row := func(label, value, color string) {
			hw.printf(`<tr><td style="padding: 4px 12px;">%s</td><td style="padding: 4px 12px; font-weight: bold; color: %s;">%s</td></tr>`, label, color, value)
		}
		row("Total scenarios", fmt.Sprint(s.TotalScenarios), "#1f2933")
		row("Passed", fmt.Sprint(s.PassedScenarios), "#1a7f37")
		row("Failed", fmt.Sprint(s.FailedScenarios), "#cf222e")
		row("Pass rate", summary.FormatPassRate(s.PassRate), "#1f2933")
		hw.raw(`</table>`)
		if s.FailedScenarios > 0 {
			hw.raw(`<h3>Features with failures</h3><ul>`)
			for _, feature := range s.FailedFeatures() {
				hw.printf(`<li>%s - %d failed</li>`, feature.Name, feature.Failed)
			}
			hw.raw(`</ul>`)
		}
		name := email.AttachmentName
		if name == "" {
			name = "the attached file"
		}
		hw.printf(`<p style="color: #57606a;">The full report is attached as %s.</p>`, name)
		hw.raw(`<p style="color: #8c959f; font-size: 12px;">Generated automatically by the Cucumber Reports Dashboard.</p>`)
		hw.raw(`</body></html>`)
		return hw.err
	})
}

// RenderEmail renders the email body into a string.
func RenderEmail(ctx context.Context, email Email) (string, error) {
	var builder strings.Builder
	if err := EmailBody(email).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
