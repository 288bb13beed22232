package stats

import (
	"math"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

// ComputeStats classifies every habit-day in the range as completed, partial,
// or missed and accumulates per-day chart rows plus a period summary. A habit
// contributes to a day's denominator only while active and scheduled; days
// outside its window are excluded, not counted as missed.
func ComputeStats(habits []*domain.Habit, r domain.DateRange) *domain.PeriodStats {
	days := r.Days()

	out := &domain.PeriodStats{
		StartDate:  domain.DayKey(r.Start),
		EndDate:    domain.DayKey(r.End),
		DailyStats: make([]domain.DailyStat, 0, len(days)),
	}

	overallTotal := 0
	progressSum := 0.0
	progressDays := 0

	for _, day := range days {
		ds := domain.DailyStat{Date: domain.DayKey(day)}

		for _, h := range habits {
			if h == nil || !h.ActiveOn(day) || !h.ScheduledOn(day) {
				continue
			}

			ds.Total++
			switch h.StatusOn(ds.Date) {
			case domain.StatusCompleted:
				ds.Completed++
			case domain.StatusPartial:
				ds.Partial++
			default:
				ds.Missed++
			}
		}

		if ds.Total > 0 {
			ds.CompletionRate = float64(ds.Completed) / float64(ds.Total) * 100
			ds.ProgressRate = (float64(ds.Completed) + 0.5*float64(ds.Partial)) / float64(ds.Total) * 100

			progressSum += ds.ProgressRate
			progressDays++

			if ds.Completed == ds.Total {
				out.Summary.PerfectDays++
			}
		}

		overallTotal += ds.Total
		out.Summary.TotalCompleted += ds.Completed
		out.Summary.TotalPartial += ds.Partial
		out.Summary.TotalMissed += ds.Missed

		out.DailyStats = append(out.DailyStats, ds)
	}

	if overallTotal > 0 {
		out.Summary.AverageCompletion = float64(out.Summary.TotalCompleted) / float64(overallTotal) * 100
	}
	if progressDays > 0 {
		out.Summary.AverageProgress = progressSum / float64(progressDays)
	}

	return out
}

// Consistency is the share of possible habit-days in the range that were
// fully completed, 0-100. Each habit's possible days are the intersection of
// its active lifetime with the range; habits created after the range end
// contribute nothing to either side of the division.
func Consistency(habits []*domain.Habit, r domain.DateRange) int {
	days := r.Days()

	possible := 0
	completed := 0

	for _, h := range habits {
		if h == nil {
			continue
		}
		for _, day := range days {
			if !h.ActiveOn(day) || !h.ScheduledOn(day) {
				continue
			}
			possible++
			if h.StatusOn(domain.DayKey(day)) == domain.StatusCompleted {
				completed++
			}
		}
	}

	if possible == 0 {
		return 0
	}

	pct := int(math.Round(float64(completed) / float64(possible) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// DailyCompletionValues flattens a habit's recent history into an ordered
// percentage sequence for trend analysis: 100 for a completed day, 50 for a
// partial one, 0 otherwise. Days before creation and unscheduled days are
// skipped.
func DailyCompletionValues(h *domain.Habit, r domain.DateRange) []float64 {
	if h == nil {
		return nil
	}

	var values []float64
	for _, day := range r.Days() {
		if !h.ActiveOn(day) || !h.ScheduledOn(day) {
			continue
		}

		switch h.StatusOn(domain.DayKey(day)) {
		case domain.StatusCompleted:
			values = append(values, 100)
		case domain.StatusPartial:
			values = append(values, 50)
		default:
			values = append(values, 0)
		}
	}

	return values
}
