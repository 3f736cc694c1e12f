package summary

import (
	"fmt"
	"math"
)

// FormatDuration renders milliseconds as "500ms", "1.5s", or "1m 5s".
func FormatDuration(ms float64) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", int64(math.Round(ms)))
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	minutes := math.Floor(ms / 60_000)
	seconds := math.Floor(math.Mod(ms, 60_000) / 1000)
	return fmt.Sprintf("%dm %ds", int64(minutes), int64(seconds))
}

// FormatPassRate renders a pass rate percentage with one decimal.
func FormatPassRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}
