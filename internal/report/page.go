package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"cukedash/internal/summary"
)

// Page holds everything the dashboard template renders.
type Page struct {
	Title       string
	StyleURLs   []string
	Summary     *summary.ReportSummary
	SummaryJSON string
	Error       string
	Notice      string
	MailEnabled bool
}

// DashboardPage renders the full dashboard document.
func DashboardPage(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		title := page.Title
		if title == "" {
			title = "Cucumber Reports Dashboard"
		}
		hw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8" />`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1" />`)
		hw.printf(`<title>%s</title>`, title)
		for _, styleURL := range page.StyleURLs {
			hw.printf(`<link rel="stylesheet" href="%s" />`, styleURL)
		}
		hw.raw(`</head><body><main class="container">`)
		hw.render(ctx, header(title))
		if page.Error != "" {
			hw.printf(`<div class="alert alert-error" role="alert">%s</div>`, page.Error)
		}
		if page.Notice != "" {
			hw.printf(`<div class="alert alert-notice" role="status">%s</div>`, page.Notice)
		}
		if page.Summary == nil {
			hw.render(ctx, emptyState())
		} else {
			hw.render(ctx, statsCards(*page.Summary))
			hw.render(ctx, stepsBreakdown(*page.Summary))
			hw.render(ctx, featuresTable(page.Summary.Features))
			hw.render(ctx, exportForms(page))
		}
		hw.raw(`</main></body></html>`)
		return hw.err
	})
}

// header renders the title bar with the upload form.
func header(title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.printf(`<header class="report-header"><h1>%s</h1>`, title)
		hw.raw(`<form class="upload" method="post" action="/upload" enctype="multipart/form-data">`)
		hw.raw(`<input type="file" name="report" accept=".json,application/json" required />`)
		hw.raw(`<button type="submit">Upload JSON</button></form></header>`)
		return hw.err
	})
}

// emptyState invites the user to upload a report or load the example.
func emptyState() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="empty-state"><h2>Upload your Cucumber report</h2>`)
		hw.raw(`<p>Select a JSON file produced by Cucumber to see the results of your automated tests.</p>`)
		hw.raw(`<a class="button" href="/example">Load example data</a></section>`)
		return hw.err
	})
}

// statsCards renders the scenario totals and pass rate.
func statsCards(s summary.ReportSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="stats">`)
		card := func(class, label, value string) {
			hw.printf(`<div class="card %s"><div class="card-label">%s</div><div class="card-value">%s</div></div>`, class, label, value)
		}
		card("total", "Scenarios", fmt.Sprint(s.TotalScenarios))
		card("passed", "Passed", fmt.Sprint(s.PassedScenarios))
		card("failed", "Failed", fmt.Sprint(s.FailedScenarios))
		card("skipped", "Skipped", fmt.Sprint(s.SkippedScenarios))
		card("rate", "Pass rate", summary.FormatPassRate(s.PassRate))
		card("duration", "Duration", summary.FormatDuration(s.TotalDuration))
		hw.raw(`</section>`)
		return hw.err
	})
}

// stepsBreakdown renders step counts as proportional bars.
func stepsBreakdown(s summary.ReportSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.printf(`<section class="steps"><h2>Steps (%d)</h2><div class="bar">`, s.TotalSteps)
		segment := func(class string, count int) {
			if count == 0 {
				return
			}
			hw.printf(`<span class="segment %s" style="width: %s">%d</span>`, class, percent(count, s.TotalSteps), count)
		}
		segment("passed", s.PassedSteps)
		segment("failed", s.FailedSteps)
		segment("skipped", s.SkippedSteps)
		hw.raw(`</div></section>`)
		return hw.err
	})
}

// featuresTable renders one row per feature with expandable scenario detail.
func featuresTable(features []summary.FeatureSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="features"><h2>Features</h2><table><thead><tr>`)
		hw.raw(`<th>Feature</th><th>Status</th><th>Total</th><th>Passed</th><th>Failed</th><th>Skipped</th><th>Duration</th>`)
		hw.raw(`</tr></thead><tbody>`)
		for _, feature := range features {
			hw.printf(`<tr class="feature-row"><td><div class="feature-name">%s</div><div class="uri">%s</div></td>`, feature.Name, feature.URI)
			hw.printf(`<td><span class="badge %s">%s</span></td>`, string(feature.Status), string(feature.Status))
			hw.printf(`<td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td></tr>`,
				feature.TotalScenarios, feature.Passed, feature.Failed, feature.Skipped, summary.FormatDuration(feature.Duration))
			hw.raw(`<tr class="feature-detail"><td colspan="7">`)
			for _, scenario := range feature.Scenarios {
				hw.render(ctx, scenarioDetail(scenario))
			}
			hw.raw(`</td></tr>`)
		}
		hw.raw(`</tbody></table></section>`)
		return hw.err
	})
}

// scenarioDetail renders a collapsible scenario with its steps.
func scenarioDetail(s summary.ScenarioSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		open := ""
		if s.Status == summary.StatusFailed {
			open = " open"
		}
		hw.raw(`<details class="scenario"` + open + `><summary>`)
		hw.printf(`<span class="badge %s">%s</span> %s <span class="duration">%s</span>`,
			string(s.Status), string(s.Status), s.Name, summary.FormatDuration(s.Duration))
		for _, tag := range s.Tags {
			hw.printf(` <span class="tag">%s</span>`, tag)
		}
		hw.raw(`</summary><ol class="step-list">`)
		for _, step := range s.Steps {
			hw.printf(`<li class="step %s"><span class="keyword">%s</span>%s <span class="duration">%s</span>`,
				string(step.Status), strings.TrimSpace(step.Keyword), " "+step.Name, summary.FormatDuration(step.Duration))
			if step.ErrorMessage != nil {
				hw.printf(`<pre class="error-message">%s</pre>`, *step.ErrorMessage)
			}
			hw.raw(`</li>`)
		}
		hw.raw(`</ol></details>`)
		return hw.err
	})
}

// exportForms renders the PDF and JPEG downloads and the email form carrying the summary.
func exportForms(page Page) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="export">`)
		hw.raw(`<form method="post" action="/export/pdf">`)
		hw.printf(`<input type="hidden" name="summary" value="%s" />`, page.SummaryJSON)
		hw.raw(`<button type="submit">Download PDF</button></form>`)
		hw.raw(`<form method="post" action="/export/image">`)
		hw.printf(`<input type="hidden" name="summary" value="%s" />`, page.SummaryJSON)
		hw.raw(`<button type="submit">Download image</button></form>`)
		if page.MailEnabled {
			hw.raw(`<form class="send" method="post" action="/send">`)
			hw.printf(`<input type="hidden" name="summary" value="%s" />`, page.SummaryJSON)
			hw.raw(`<input type="email" name="to" placeholder="recipient@example.com" required />`)
			hw.raw(`<input type="text" name="subject" placeholder="Cucumber Test Report" />`)
			hw.raw(`<select name="format"><option value="pdf" selected>PDF</option><option value="image">JPEG image</option></select>`)
			hw.raw(`<button type="submit">Send by email</button></form>`)
		}
		hw.raw(`</section>`)
		return hw.err
	})
}

// percent renders count/total as a CSS percentage.
func percent(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(count)/float64(total)*100)
}

// htmlWriter writes markup, escaping every formatted argument and keeping the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			escaped[i] = templ.EscapeString(v)
		default:
			escaped[i] = v
		}
	}
	h.raw(fmt.Sprintf(format, escaped...))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
