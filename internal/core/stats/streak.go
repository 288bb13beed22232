package stats

import (
	"sort"
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

// DefaultMaxStreakDays bounds how far back streak walks look. Histories
// longer than this are cut off regardless of what the data claims.
const DefaultMaxStreakDays = 365

// CurrentStreak counts consecutive completed days ending at the reference
// day. A reference day that is not yet completed does not break an existing
// streak: the day is still in progress, so counting starts from the day
// before. Days the habit is not scheduled on are skipped, not broken on.
func CurrentStreak(h *domain.Habit, ref time.Time) int {
	return currentStreakCapped(h, ref, DefaultMaxStreakDays)
}

func currentStreakCapped(h *domain.Habit, ref time.Time, maxDays int) int {
	if h == nil {
		return 0
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxStreakDays
	}

	day := startOfDay(ref)
	budget := maxDays

	if h.StatusOn(domain.DayKey(day)) != domain.StatusCompleted {
		day = day.AddDate(0, 0, -1)
		budget--
	}

	createdKey := domain.DayKey(h.CreatedAt.In(ref.Location()))
	streak := 0

	for walked := 0; walked < budget; walked++ {
		key := domain.DayKey(day)
		if key < createdKey {
			break
		}

		if h.ScheduledOn(day) {
			if h.StatusOn(key) != domain.StatusCompleted {
				break
			}
			streak++
		}

		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// BestStreak finds the longest run of exactly-consecutive completed dates
// within the given range. A single completed date yields 1; no completed
// dates yield 0.
func BestStreak(h *domain.Habit, r domain.DateRange) int {
	if h == nil {
		return 0
	}

	seen := make(map[string]bool)
	for day := range h.CompletedDays {
		if r.Contains(day) && h.StatusOn(day) == domain.StatusCompleted {
			seen[day] = true
		}
	}
	for day := range h.DailyTasks {
		if r.Contains(day) && h.StatusOn(day) == domain.StatusCompleted {
			seen[day] = true
		}
	}

	if len(seen) == 0 {
		return 0
	}

	keys := make([]string, 0, len(seen))
	for day := range seen {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	best := 0
	run := 0
	var prev time.Time

	for i, key := range keys {
		t, err := time.Parse(domain.DayKeyLayout, key)
		if err != nil {
			continue
		}

		if i > 0 && t.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}

		prev = t
	}

	return best
}

// GlobalStreak counts consecutive days ending today on which every active,
// scheduled habit in the collection was fully completed. One neglected habit
// on an otherwise perfect day caps the streak at that day. A day with no
// active habit ends the streak; an empty collection yields 0. The walk never
// exceeds maxDays (0 means DefaultMaxStreakDays).
func GlobalStreak(habits []*domain.Habit, ref time.Time, maxDays int) int {
	if len(habits) == 0 {
		return 0
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxStreakDays
	}

	allComplete := func(day time.Time) (complete, anyActive bool) {
		key := domain.DayKey(day)
		active := 0
		for _, h := range habits {
			if h == nil || !h.ActiveOn(day) || !h.ScheduledOn(day) {
				continue
			}
			active++
			// No data counts as not completed, never as skipped.
			if h.StatusOn(key) != domain.StatusCompleted {
				return false, true
			}
		}
		return active > 0, active > 0
	}

	day := startOfDay(ref)
	budget := maxDays

	// Same grace as the per-habit walk: a still-pending today must not zero
	// an alive streak.
	if complete, _ := allComplete(day); !complete {
		day = day.AddDate(0, 0, -1)
		budget--
	}

	streak := 0
	for walked := 0; walked < budget; walked++ {
		complete, anyActive := allComplete(day)
		if !anyActive || !complete {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}
