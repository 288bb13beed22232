package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/stats"
)

func TestPredict(t *testing.T) {
	t.Run("Perfect pace at the halfway mark is a top bucket", func(t *testing.T) {
		h := newDailyHabit("h1", 49) // day 50 of the goal
		h.HasEndGoal = true
		h.EndGoalDays = 100
		h.TotalDays = 100
		for d := 0; d < 50; d++ {
			markDone(h, d)
		}

		p := stats.Predict(h, refDate)

		assert.Equal(t, 50, p.DaysElapsed)
		assert.Equal(t, 50, p.CompletedDays)
		assert.Equal(t, 70, p.RequiredDays)
		assert.Equal(t, 50, p.DaysRemaining)
		assert.Equal(t, 30, p.BufferDays)
		assert.True(t, p.CanStillSucceed)
		assert.Equal(t, 100, p.SuccessRate)
		assert.Contains(t, []string{stats.PredictionExcellent, stats.PredictionOnTrack}, p.Status)
	})

	t.Run("Ten completions at day 90 of 100 cannot succeed", func(t *testing.T) {
		h := newDailyHabit("h1", 89)
		h.HasEndGoal = true
		h.EndGoalDays = 100
		h.TotalDays = 100
		for d := 80; d < 90; d++ {
			markDone(h, d)
		}

		p := stats.Predict(h, refDate)

		assert.Equal(t, 90, p.DaysElapsed)
		assert.Equal(t, 10, p.CompletedDays)
		assert.Equal(t, 10, p.DaysRemaining)
		assert.False(t, p.CanStillSucceed, "70 required, at most 20 reachable")
		assert.Equal(t, 0, p.BufferDays)
		assert.Equal(t, stats.PredictionAtRisk, p.Status)
	})

	t.Run("Behind pace but recoverable needs focus", func(t *testing.T) {
		h := newDailyHabit("h1", 49)
		h.HasEndGoal = true
		h.EndGoalDays = 100
		h.TotalDays = 100
		for d := 25; d < 50; d++ {
			markDone(h, d) // 25 of 50 days done
		}

		p := stats.Predict(h, refDate)

		assert.True(t, p.CanStillSucceed)
		// 45 more needed in 50 days: behind the bar but feasible.
		assert.Equal(t, stats.PredictionNeedsFocus, p.Status)
		assert.Greater(t, p.SuggestedPace, 0.0)
	})

	t.Run("Habit created today returns safe output", func(t *testing.T) {
		h := newDailyHabit("h1", 0)
		h.HasEndGoal = true
		h.EndGoalDays = 30
		h.TotalDays = 30

		p := stats.Predict(h, refDate)

		assert.Equal(t, 1, p.DaysElapsed)
		assert.Equal(t, 0, p.CompletedDays)
		assert.True(t, p.CanStillSucceed)
		assert.Equal(t, 0, p.SuccessRate)
	})

	t.Run("Zero-length goal degrades to unknown instead of dividing", func(t *testing.T) {
		h := newDailyHabit("h1", 10)

		p := stats.Predict(h, refDate)

		assert.Equal(t, stats.PredictionUnknown, p.Status)
		assert.Equal(t, 0, p.SuccessRate)
		assert.Equal(t, 0, p.RequiredDays)
		assert.False(t, p.CanStillSucceed)
	})

	t.Run("Nil habit degrades to unknown", func(t *testing.T) {
		p := stats.Predict(nil, refDate)
		assert.Equal(t, stats.PredictionUnknown, p.Status)
	})

	t.Run("Identical inputs produce identical predictions", func(t *testing.T) {
		h := newDailyHabit("h1", 20)
		h.HasEndGoal = true
		h.EndGoalDays = 60
		h.TotalDays = 60
		markDone(h, 0, 1, 2, 5, 8, 13)

		assert.Equal(t, stats.Predict(h, refDate), stats.Predict(h, refDate))
	})
}
