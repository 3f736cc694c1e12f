package export

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"cukedash/internal/summary"
)

const (
	imageWidth   = 1200
	imageHeight  = 640
	imagePadding = 48.0
	jpegQuality  = 80
)

// Dark dashboard palette.
const (
	backgroundHex = "#0a0a0f"
	cardHex       = "#16161f"
	textHex       = "#f4f4f5"
	mutedHex      = "#a1a1aa"
	brandHex      = "#6c3ce0"
	passedHex     = "#22c55e"
	failedHex     = "#ef4444"
	skippedHex    = "#eab308"
	otherHex      = "#64748b"
)

type faces struct {
	title, label, value, small font.Face
}

// loadFaces parses the embedded Go fonts once.
var loadFaces = sync.OnceValues(func() (faces, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return faces{}, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return faces{}, fmt.Errorf("parse bold font: %w", err)
	}
	return faces{
		title: truetype.NewFace(bold, &truetype.Options{Size: 34}),
		label: truetype.NewFace(regular, &truetype.Options{Size: 18}),
		value: truetype.NewFace(bold, &truetype.Options{Size: 40}),
		small: truetype.NewFace(regular, &truetype.Options{Size: 16}),
	}, nil
})

// WriteJPEG renders the stats cards and step breakdown for s as a JPEG.
func WriteJPEG(w io.Writer, s summary.ReportSummary, generatedAt time.Time) error {
	dc, err := drawDashboard(s, generatedAt)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(w, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// RenderJPEG renders the dashboard image into memory.
func RenderJPEG(s summary.ReportSummary, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJPEG(&buf, s, generatedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawDashboard(s summary.ReportSummary, generatedAt time.Time) (*gg.Context, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, fmt.Errorf("render image: %w", err)
	}
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetHexColor(backgroundHex)
	dc.Clear()

	dc.SetFontFace(f.title)
	dc.SetHexColor(brandHex)
	dc.DrawStringAnchored("Cucumber Test Report", imagePadding, imagePadding, 0, 1)
	dc.SetFontFace(f.small)
	dc.SetHexColor(mutedHex)
	dc.DrawStringAnchored("Generated "+generatedAt.Format("Monday, January 2, 2006 15:04"), imagePadding, imagePadding+52, 0, 1)

	bottom := statCards(dc, f, s, imagePadding+100)
	stepBreakdown(dc, f, s, bottom+40)
	return dc, nil
}

type statCard struct {
	label, value, color string
}

// statCards draws one card per scenario total at y and returns the bottom edge.
func statCards(dc *gg.Context, f faces, s summary.ReportSummary, y float64) float64 {
	cards := []statCard{
		{"Total", fmt.Sprint(s.TotalScenarios), textHex},
		{"Passed", fmt.Sprint(s.PassedScenarios), passedHex},
		{"Failed", fmt.Sprint(s.FailedScenarios), failedHex},
		{"Skipped", fmt.Sprint(s.SkippedScenarios), skippedHex},
		{"Pass rate", summary.FormatPassRate(s.PassRate), brandHex},
	}
	const gap, height = 16.0, 140.0
	width := (imageWidth - 2*imagePadding - gap*float64(len(cards)-1)) / float64(len(cards))
	for i, card := range cards {
		x := imagePadding + float64(i)*(width+gap)
		dc.SetHexColor(cardHex)
		dc.DrawRoundedRectangle(x, y, width, height, 12)
		dc.Fill()

		dc.SetFontFace(f.label)
		dc.SetHexColor(mutedHex)
		dc.DrawStringAnchored(card.label, x+20, y+28, 0, 0.5)
		dc.SetFontFace(f.value)
		dc.SetHexColor(card.color)
		dc.DrawStringAnchored(card.value, x+20, y+90, 0, 0.5)
	}
	return y + height
}

type stepBar struct {
	label string
	count int
	color string
}

// stepBars lists the step statuses shown in the breakdown. A posted summary
// whose totals do not add up shows the remainder as Other.
func stepBars(s summary.ReportSummary) []stepBar {
	bars := []stepBar{
		{"Passed", s.PassedSteps, passedHex},
		{"Failed", s.FailedSteps, failedHex},
		{"Skipped", s.SkippedSteps, skippedHex},
	}
	if other := s.TotalSteps - s.PassedSteps - s.FailedSteps - s.SkippedSteps; other > 0 {
		bars = append(bars, stepBar{"Other", other, otherHex})
	}
	return bars
}

// stepBreakdown draws one horizontal bar per step status starting at y.
func stepBreakdown(dc *gg.Context, f faces, s summary.ReportSummary, y float64) {
	dc.SetFontFace(f.label)
	dc.SetHexColor(textHex)
	dc.DrawStringAnchored(fmt.Sprintf("Step breakdown (%d steps)", s.TotalSteps), imagePadding, y, 0, 1)
	y += 44

	const labelWidth, countWidth, barHeight, rowGap = 110.0, 80.0, 26.0, 18.0
	trackX := imagePadding + labelWidth
	trackWidth := imageWidth - 2*imagePadding - labelWidth - countWidth
	for _, bar := range stepBars(s) {
		dc.SetFontFace(f.small)
		dc.SetHexColor(mutedHex)
		dc.DrawStringAnchored(bar.label, imagePadding, y+barHeight/2, 0, 0.35)

		dc.SetHexColor(cardHex)
		dc.DrawRoundedRectangle(trackX, y, trackWidth, barHeight, 6)
		dc.Fill()
		if s.TotalSteps > 0 && bar.count > 0 {
			dc.SetHexColor(bar.color)
			dc.DrawRoundedRectangle(trackX, y, trackWidth*float64(bar.count)/float64(s.TotalSteps), barHeight, 6)
			dc.Fill()
		}

		dc.SetHexColor(textHex)
		dc.DrawStringAnchored(fmt.Sprint(bar.count), imageWidth-imagePadding, y+barHeight/2, 1, 0.35)
		y += barHeight + rowGap
	}
}
