// Package stats is the pure calculation core of the engine: streaks, tiers,
// trends, period aggregates, and success predictions. Every function takes
// its full input as arguments, including an explicit reference time, and
// returns a fresh result. Nothing in this package reads the system clock,
// performs I/O, or retains state between calls.
package stats

import (
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

const (
	PeriodWeek      = "week"
	PeriodMonth     = "month"
	PeriodFourWeeks = "4weeks"
	PeriodAll       = "all"
)

// allTimeStart is the sentinel lower bound for the "all" period. It is meant
// to be intersected with actual habit creation dates via ClampToHabits.
var allTimeStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// ResolveRange turns a period selector into a concrete inclusive interval
// anchored to the reference time. Weeks start on Monday. Unknown selectors
// fall back to the rolling four-week window so the function stays total.
func ResolveRange(period string, now time.Time) domain.DateRange {
	today := startOfDay(now)

	switch period {
	case PeriodWeek:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := today.AddDate(0, 0, -(weekday - 1))
		return domain.DateRange{
			Start: monday,
			End:   endOfDay(monday.AddDate(0, 0, 6)),
		}

	case PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return domain.DateRange{
			Start: first,
			End:   endOfDay(first.AddDate(0, 1, -1)),
		}

	case PeriodAll:
		return domain.DateRange{
			Start: allTimeStart.In(today.Location()),
			End:   endOfDay(today),
		}

	default:
		return RollingRange(28, now)
	}
}

// RollingRange returns the last n days ending today, inclusive on both ends,
// so the window always includes the reference day.
func RollingRange(n int, now time.Time) domain.DateRange {
	if n < 1 {
		n = 1
	}

	today := startOfDay(now)
	return domain.DateRange{
		Start: today.AddDate(0, 0, -(n - 1)),
		End:   endOfDay(today),
	}
}

// ClampToReference caps a range's end at the reference day, so calendar
// periods like "this week" never ask the engine to classify days that have
// not happened yet.
func ClampToReference(r domain.DateRange, ref time.Time) domain.DateRange {
	last := endOfDay(ref)
	if r.End.After(last) {
		r.End = last
	}
	return r
}

// ClampToHabits narrows a range so its start is never earlier than the
// earliest habit's creation day. A range against an empty collection is
// returned unchanged.
func ClampToHabits(r domain.DateRange, habits []*domain.Habit) domain.DateRange {
	var earliest time.Time

	for _, h := range habits {
		if h == nil {
			continue
		}
		created := startOfDay(h.CreatedAt.In(r.Start.Location()))
		if earliest.IsZero() || created.Before(earliest) {
			earliest = created
		}
	}

	if !earliest.IsZero() && r.Start.Before(earliest) {
		r.Start = earliest
	}

	return r
}
