// Package export renders report summaries into downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"cukedash/internal/summary"
)

const (
	marginLeft    = 20.0
	pageBreakAtMM = 250.0
)

var (
	brandColor  = [3]int{108, 60, 224}
	failedColor = [3]int{239, 68, 68}
	mutedColor  = [3]int{100, 100, 100}
)

// WritePDF renders an A4 report for s to w.
func WritePDF(w io.Writer, s summary.ReportSummary, generatedAt time.Time) error {
	pdf := buildPDF(s, generatedAt)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// buildPDF lays out the report document.
func buildPDF(s summary.ReportSummary, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Cucumber Test Report", true)
	pdf.SetCreator("cukedash", true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	setColor(pdf, brandColor)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(marginLeft, 20, "Cucumber Test Report")

	setColor(pdf, mutedColor)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, 30, "Generated "+generatedAt.Format("Monday, January 2, 2006 15:04"))

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginLeft, 45, "Execution summary")

	summaryTable(pdf, s)

	failed := s.FailedFeatures()
	if len(failed) > 0 {
		y := pdf.GetY() + 15
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(marginLeft, y, "Failed features")
		y += 10
		for _, feature := range failed {
			y = failedFeature(pdf, tr, feature, y)
		}
	}
	return pdf
}

// RenderPDF renders the report into memory.
func RenderPDF(s summary.ReportSummary, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, s, generatedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// summaryTable draws the totals grid below the section heading.
func summaryTable(pdf *fpdf.Fpdf, s summary.ReportSummary) {
	headers := []string{"Total", "Passed", "Failed", "Skipped", "Pass rate"}
	values := []string{
		fmt.Sprint(s.TotalScenarios),
		fmt.Sprint(s.PassedScenarios),
		fmt.Sprint(s.FailedScenarios),
		fmt.Sprint(s.SkippedScenarios),
		summary.FormatPassRate(s.PassRate),
	}
	const cellWidth, cellHeight = 34.0, 9.0

	pdf.SetXY(marginLeft, 50)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.SetTextColor(255, 255, 255)
	for _, header := range headers {
		pdf.CellFormat(cellWidth, cellHeight, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetX(marginLeft)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, value := range values {
		pdf.CellFormat(cellWidth, cellHeight, value, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

// failedFeature draws one failed feature block starting at y and returns the next y.
func failedFeature(pdf *fpdf.Fpdf, tr func(string) string, feature summary.FeatureSummary, y float64) float64 {
	if y > pageBreakAtMM {
		pdf.AddPage()
		y = 20
	}
	setColor(pdf, failedColor)
	pdf.SetFont("Helvetica", "B", 12)
	y = wrapText(pdf, marginLeft, y, 5, tr(feature.Name)) + 2

	setColor(pdf, mutedColor)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft+5, y, fmt.Sprintf("Total: %d | Passed: %d | Failed: %d | Skipped: %d",
		feature.TotalScenarios, feature.Passed, feature.Failed, feature.Skipped))
	y += 7

	for _, scenario := range feature.FailedScenarios() {
		if y > pageBreakAtMM {
			pdf.AddPage()
			y = 20
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 10)
		y = wrapText(pdf, marginLeft+5, y, 4.5, tr("- "+scenario.Name))
		if scenario.ErrorMessage != nil {
			setColor(pdf, failedColor)
			pdf.SetFont("Courier", "", 8)
			pdf.SetXY(marginLeft+10, y-3)
			pdf.MultiCell(160, 4, tr(*scenario.ErrorMessage), "", "L", false)
			y = pdf.GetY() + 2
		}
	}
	return y + 5
}

// wrapText draws text whose first baseline is at y, wrapping at the right
// margin, and returns the baseline below the last line.
func wrapText(pdf *fpdf.Fpdf, x, y, lineHeight float64, text string) float64 {
	pageWidth, _ := pdf.GetPageSize()
	pdf.SetXY(x, y-lineHeight*0.75)
	pdf.MultiCell(pageWidth-marginLeft-x, lineHeight, text, "", "L", false)
	return pdf.GetY() + lineHeight*0.75
}

func setColor(pdf *fpdf.Fpdf, rgb [3]int) {
	pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
}
