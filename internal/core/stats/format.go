package stats

import (
	"fmt"
	"math"
)

// FormatPercentage renders a 0-100 value as a whole-number percentage string.
// Out-of-range input is clamped, never passed through.
func FormatPercentage(v float64) string {
	if math.IsNaN(v) {
		v = 0
	}
	pct := clampInt(int(math.Round(v)), 0, 100)
	return fmt.Sprintf("%d%%", pct)
}

// ColorForPercentage maps a 0-100 value to a display hex color, green at the
// top, red at the bottom. Presentation convenience only; screens may layer
// their own palette on top.
func ColorForPercentage(v float64) string {
	switch {
	case v >= 80:
		return "#22C55E"
	case v >= 60:
		return "#84CC16"
	case v >= 40:
		return "#F59E0B"
	case v >= 20:
		return "#F97316"
	default:
		return "#EF4444"
	}
}
