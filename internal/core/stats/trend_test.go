package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/stats"
)

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		threshold float64
		want      domain.Trend
	}{
		{
			name:      "Clear rise is increasing",
			values:    []float64{10, 10, 10, 50, 50, 50},
			threshold: 5,
			want:      domain.TrendIncreasing,
		},
		{
			name:      "Clear fall is decreasing",
			values:    []float64{50, 50, 50, 10, 10, 10},
			threshold: 5,
			want:      domain.TrendDecreasing,
		},
		{
			name:      "Noise within threshold is stable",
			values:    []float64{20, 22, 21, 23},
			threshold: 5,
			want:      domain.TrendStable,
		},
		{
			name:      "Single value is always stable",
			values:    []float64{87},
			threshold: 5,
			want:      domain.TrendStable,
		},
		{
			name:      "Empty input is stable",
			values:    nil,
			threshold: 5,
			want:      domain.TrendStable,
		},
		{
			name:      "Odd length puts the middle element in the second half",
			values:    []float64{0, 0, 100, 100, 100},
			threshold: 5,
			want:      domain.TrendIncreasing,
		},
		{
			name:      "Tighter threshold flips stable to increasing",
			values:    []float64{20, 22, 21, 23},
			threshold: 0.5,
			want:      domain.TrendIncreasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.ClassifyTrend(tt.values, tt.threshold))
		})
	}
}

func TestTrendDelta(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{
			name:   "Signed rounded difference",
			values: []float64{10, 10, 50, 50},
			want:   40,
		},
		{
			name:   "Negative direction",
			values: []float64{80, 80, 20, 20},
			want:   -60,
		},
		{
			name:   "Fewer than two values yields 0",
			values: []float64{42},
			want:   0,
		},
		{
			name:   "Both halves below the activity floor yields 0",
			values: []float64{1, 2, 3, 4},
			want:   0,
		},
		{
			name:   "Low first half with active second half still reports",
			values: []float64{0, 0, 100, 100},
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.TrendDelta(tt.values))
		})
	}
}
