package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCompletion = errors.New("invalid completion data")
	ErrInvalidDayKey     = errors.New("invalid day (must be YYYY-MM-DD)")
)

// Completion is one habit-day record: either a plain "done" mark or, for
// habits that decompose into sub-tasks, the set of task ids completed that
// day. One row per habit per calendar day.
type Completion struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	// Day is the local calendar date key (YYYY-MM-DD) the completion refers
	// to, never a UTC-derived one.
	Day            string   `json:"day" db:"day"`
	CompletedTasks []string `json:"completed_tasks" db:"-"`
	AllCompleted   bool     `json:"all_completed" db:"all_completed"`
	Notes          string   `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewCompletion(habitID, userID, day string, completedTasks []string, allCompleted bool) *Completion {
	now := time.Now().UTC()

	return &Completion{
		ID:             uuid.New().String(),
		HabitID:        habitID,
		UserID:         userID,
		Day:            day,
		CompletedTasks: completedTasks,
		AllCompleted:   allCompleted,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if _, err := time.Parse(DayKeyLayout, c.Day); err != nil {
		return ErrInvalidDayKey
	}
	return nil
}
