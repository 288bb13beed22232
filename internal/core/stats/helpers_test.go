package stats_test

import (
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

// refDate is a pinned Wednesday used as "today" across the package tests.
var refDate = time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

func newDailyHabit(id string, createdDaysAgo int) *domain.Habit {
	return &domain.Habit{
		ID:            id,
		UserID:        "u1",
		Title:         "Habit " + id,
		Frequency:     domain.HabitFreqDaily,
		CreatedAt:     refDate.AddDate(0, 0, -createdDaysAgo),
		CompletedDays: map[string]bool{},
		DailyTasks:    map[string]domain.TaskRecord{},
	}
}

func markDone(h *domain.Habit, daysAgo ...int) {
	for _, d := range daysAgo {
		h.CompletedDays[dayAgo(d)] = true
	}
}

func dayAgo(d int) string {
	return domain.DayKey(refDate.AddDate(0, 0, -d))
}
