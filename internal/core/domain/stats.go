package domain

import "time"

// Trend classifies the direction of a sequence of completion percentages.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// DateRange is an inclusive calendar interval. Start and End carry the
// caller's location; all day iteration happens in that location.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns every day in the range as midnight-anchored times, oldest
// first. A zero-length or inverted range yields an empty slice.
func (r DateRange) Days() []time.Time {
	var days []time.Time

	day := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, r.Start.Location())
	for !day.After(r.End) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}

	return days
}

// Contains reports whether the given day key falls inside the range.
func (r DateRange) Contains(dayKey string) bool {
	return dayKey >= DayKey(r.Start) && dayKey <= DayKey(r.End)
}

// DailyStat is one chart row: what the whole habit portfolio did on a single
// calendar day.
type DailyStat struct {
	Date           string  `json:"date"`
	Completed      int     `json:"completed"`
	Partial        int     `json:"partial"`
	Missed         int     `json:"missed"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"`
	ProgressRate   float64 `json:"progress_rate"`
}

// PeriodSummary aggregates DailyStat rows across a whole period.
type PeriodSummary struct {
	TotalCompleted    int     `json:"total_completed"`
	TotalPartial      int     `json:"total_partial"`
	TotalMissed       int     `json:"total_missed"`
	AverageCompletion float64 `json:"average_completion"`
	AverageProgress   float64 `json:"average_progress"`
	PerfectDays       int     `json:"perfect_days"`
}

type PeriodStats struct {
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	DailyStats []DailyStat   `json:"daily_stats"`
	Summary    PeriodSummary `json:"summary"`
}

// HabitStreaks is the per-habit streak line in a streak overview.
type HabitStreaks struct {
	HabitID       string `json:"habit_id"`
	Title         string `json:"title"`
	Color         string `json:"color"`
	Icon          string `json:"icon"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

// Tier is a named streak-length milestone.
type Tier struct {
	Name      string `json:"name"`
	MinStreak int    `json:"min_streak"`
}

type StreakOverview struct {
	GlobalStreak   int            `json:"global_streak"`
	Tier           Tier           `json:"tier"`
	NextTier       *Tier          `json:"next_tier,omitempty"`
	DaysToNextTier int            `json:"days_to_next_tier"`
	Habits         []HabitStreaks `json:"habits"`
}

// Prediction is the success forecast for a single end-goal habit.
type Prediction struct {
	HabitID             string  `json:"habit_id"`
	Title               string  `json:"title,omitempty"`
	SuccessRate         int     `json:"success_rate"`
	CompletedDays       int     `json:"completed_days"`
	RequiredDays        int     `json:"required_days"`
	DaysElapsed         int     `json:"days_elapsed"`
	DaysRemaining       int     `json:"days_remaining"`
	BufferDays          int     `json:"buffer_days"`
	CanStillSucceed     bool    `json:"can_still_succeed"`
	PredictedCompletion int     `json:"predicted_completion"`
	SuggestedPace       float64 `json:"suggested_pace"`
	Trend               Trend   `json:"trend"`
	Status              string  `json:"status"`
	StatusText          string  `json:"status_text"`
}

// StatsInput carries everything a stats query needs, including the explicit
// reference time ("today"). Services never read the system clock themselves.
type StatsInput struct {
	UserID    string
	Period    string
	Reference time.Time
}
