package stats

import (
	"math"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

const (
	// DefaultTrendThreshold is the minimum half-to-half percentage-point
	// movement before a sequence stops being "stable".
	DefaultTrendThreshold = 5.0

	// lowActivityFloor suppresses the delta when both halves hover near
	// zero; sparse data would otherwise produce noisy swings.
	lowActivityFloor = 5.0
)

// halfAverages splits the sequence into two halves (the middle element of an
// odd-length sequence belongs to the second half) and averages each. ok is
// false when there are fewer than 2 values.
func halfAverages(values []float64) (first, second float64, ok bool) {
	if len(values) < 2 {
		return 0, 0, false
	}

	mid := len(values) / 2
	for _, v := range values[:mid] {
		first += v
	}
	for _, v := range values[mid:] {
		second += v
	}

	first /= float64(mid)
	second /= float64(len(values) - mid)
	return first, second, true
}

// ClassifyTrend compares the average of the second half of an ordered
// percentage sequence against the first half. Movement beyond the threshold
// in either direction leaves "stable". Fewer than 2 values is always stable.
func ClassifyTrend(values []float64, threshold float64) domain.Trend {
	first, second, ok := halfAverages(values)
	if !ok {
		return domain.TrendStable
	}

	diff := second - first
	switch {
	case diff > threshold:
		return domain.TrendIncreasing
	case diff < -threshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// TrendDelta returns the rounded signed half-to-half difference in points,
// clamped to [-100, 100]. Sequences shorter than 2 values, or where both
// halves sit below the low-activity floor, yield 0.
func TrendDelta(values []float64) int {
	first, second, ok := halfAverages(values)
	if !ok {
		return 0
	}

	if first < lowActivityFloor && second < lowActivityFloor {
		return 0
	}

	delta := int(math.Round(second - first))
	if delta > 100 {
		delta = 100
	}
	if delta < -100 {
		delta = -100
	}
	return delta
}
