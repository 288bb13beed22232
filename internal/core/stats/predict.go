package stats

import (
	"math"
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

// Success bar and bucket cutoffs. These are product tuning collected in one
// place; nothing else in the engine hard-codes a pace number.
const (
	// SuccessBar is the completion share of the goal horizon needed to
	// count the goal as reached.
	SuccessBar = 0.70

	// excellentShare is the projected completion share that earns the top
	// bucket.
	excellentShare = 0.90

	// recoverablePace is the steepest remaining per-day pace still treated
	// as realistically recoverable; anything above it is at risk even when
	// success is arithmetically possible.
	recoverablePace = 0.90

	// predictionTrendWindow is how many recent days feed the trend line.
	predictionTrendWindow = 14
)

const (
	PredictionExcellent  = "excellent"
	PredictionOnTrack    = "on_track"
	PredictionNeedsFocus = "needs_focus"
	PredictionAtRisk     = "at_risk"
	PredictionUnknown    = "unknown"
)

var predictionStatusText = map[string]string{
	PredictionExcellent:  "Ahead of pace. Keep it up!",
	PredictionOnTrack:    "On track for your goal.",
	PredictionNeedsFocus: "Behind pace, but the goal is still in reach.",
	PredictionAtRisk:     "The goal needs near-perfect execution from here.",
	PredictionUnknown:    "Not enough goal data to predict.",
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Predict forecasts whether an end-goal habit will reach its success bar.
// Habits without a declared goal length are not predictable; callers filter
// them out upstream, and the function degrades to a neutral zeroed result
// rather than failing. Never divides by zero, never returns NaN.
func Predict(h *domain.Habit, ref time.Time) domain.Prediction {
	p := domain.Prediction{
		Trend:  domain.TrendStable,
		Status: PredictionUnknown,
	}
	if h == nil {
		p.StatusText = predictionStatusText[PredictionUnknown]
		return p
	}

	p.HabitID = h.ID
	p.Title = h.Title

	total := h.TotalDays
	if total <= 0 {
		total = h.GoalLengthDays()
	}
	if total <= 0 {
		p.StatusText = predictionStatusText[PredictionUnknown]
		return p
	}

	created := startOfDay(h.CreatedAt.In(ref.Location()))
	today := startOfDay(ref)

	elapsed := 0
	if !today.Before(created) {
		elapsed = int(today.Sub(created).Hours()/24) + 1
	}
	elapsed = clampInt(elapsed, 0, total)

	completed := 0
	day := created
	for i := 0; i < elapsed; i++ {
		if h.StatusOn(domain.DayKey(day)) == domain.StatusCompleted {
			completed++
		}
		day = day.AddDate(0, 0, 1)
	}

	required := int(math.Ceil(float64(total) * SuccessBar))
	remaining := total - elapsed
	if remaining < 0 {
		remaining = 0
	}

	buffer := remaining - (required - completed)
	if buffer < 0 {
		buffer = 0
	}

	pace := 0.0
	if elapsed > 0 {
		pace = float64(completed) / float64(elapsed)
	}

	predicted := clampInt(int(math.Round(pace*float64(total))), 0, total)

	p.CompletedDays = completed
	p.RequiredDays = required
	p.DaysElapsed = elapsed
	p.DaysRemaining = remaining
	p.BufferDays = buffer
	p.CanStillSucceed = completed+remaining >= required
	p.PredictedCompletion = predicted
	p.SuccessRate = clampInt(int(math.Round(pace*100)), 0, 100)

	if remaining > 0 && completed < required {
		perWeek := float64(required-completed) / float64(remaining) * 7
		p.SuggestedPace = math.Min(math.Round(perWeek*10)/10, 7)
	}

	trendRange := RollingRange(predictionTrendWindow, ref)
	p.Trend = ClassifyTrend(DailyCompletionValues(h, trendRange), DefaultTrendThreshold)

	switch {
	case !p.CanStillSucceed:
		p.Status = PredictionAtRisk
	case predicted >= int(math.Ceil(float64(total)*excellentShare)):
		p.Status = PredictionExcellent
	case predicted >= required:
		p.Status = PredictionOnTrack
	default:
		neededPace := 1.0
		if remaining > 0 {
			neededPace = float64(required-completed) / float64(remaining)
		}
		if neededPace <= recoverablePace {
			p.Status = PredictionNeedsFocus
		} else {
			p.Status = PredictionAtRisk
		}
	}

	p.StatusText = predictionStatusText[p.Status]
	return p
}
