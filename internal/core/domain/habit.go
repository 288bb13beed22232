package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidWeekdays    = errors.New("invalid custom days (must be 0-6)")
	ErrInvalidFrequency   = errors.New("invalid frequency (must be daily, weekly, or custom)")
	ErrInvalidEndGoal     = errors.New("end goal length must be positive")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	HabitFreqDaily  = "daily"
	HabitFreqWeekly = "weekly"
	HabitFreqCustom = "custom"
	DefaultIcon     = "default_icon"
	MaxTitleLen     = 100
	MaxDescLen      = 500
)

// DayKeyLayout is the calendar-date key format used everywhere completion
// data is indexed. Keys are derived from local wall-clock time so that a
// streak does not break when the device crosses a timezone boundary.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar-date key for t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// DayStatus is the single source of truth for "what happened on this day".
// DailyTasks takes precedence over CompletedDays when both hold data for the
// same date.
type DayStatus int

const (
	StatusNoData DayStatus = iota
	StatusMissed
	StatusPartial
	StatusCompleted
)

func (s DayStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusPartial:
		return "partial"
	case StatusMissed:
		return "missed"
	default:
		return "no_data"
	}
}

// TaskRecord is the per-day sub-task completion record for habits that
// decompose into tasks.
type TaskRecord struct {
	CompletedTasks []string `json:"completed_tasks"`
	AllCompleted   bool     `json:"all_completed"`
}

type Habit struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	SortOrder   int      `json:"sort_order"`
	Frequency   string   `json:"frequency"`
	CustomDays  []int    `json:"custom_days,omitempty"`
	TaskIDs     []string `json:"task_ids,omitempty"`

	// Optional fixed-horizon goal. The habit is only "active" between
	// CreatedAt and CreatedAt + goal length; days outside that window are
	// excluded from stats, not counted as missed.
	HasEndGoal  bool `json:"has_end_goal"`
	EndGoalDays int  `json:"end_goal_days,omitempty"`
	TotalDays   int  `json:"total_days,omitempty"`

	// Cached streak values maintained by the background worker. The stats
	// engine always recomputes from raw completion data and never trusts
	// these fields.
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`

	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// Hydrated from the completions table before stats are computed; not
	// persisted on the habits row. CompletedDays membership is O(1).
	CompletedDays map[string]bool       `json:"completed_days,omitempty"`
	DailyTasks    map[string]TaskRecord `json:"daily_tasks,omitempty"`
}

func normalizeCustomDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}

func validateHabit(title, desc, color, frequency string, customDays []int, hasEndGoal bool, endGoalDays int) error {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	switch frequency {
	case HabitFreqDaily, HabitFreqWeekly, HabitFreqCustom:
	default:
		return ErrInvalidFrequency
	}

	for _, day := range customDays {
		if day < 0 || day > 6 {
			return ErrInvalidWeekdays
		}
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	if hasEndGoal && endGoalDays <= 0 {
		return ErrInvalidEndGoal
	}

	return nil
}

func NewHabit(userID, title, description, color, icon, frequency string, customDays []int, taskIDs []string, hasEndGoal bool, endGoalDays int) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if frequency == "" {
		frequency = HabitFreqDaily
	}
	if len(customDays) > 0 {
		frequency = HabitFreqCustom
	}

	cleanDesc := strings.TrimSpace(description)

	if err := validateHabit(title, cleanDesc, color, frequency, customDays, hasEndGoal, endGoalDays); err != nil {
		return nil, err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()

	totalDays := 0
	if hasEndGoal {
		totalDays = endGoalDays
	}

	return &Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: cleanDesc,
		Color:       color,
		Icon:        icon,
		Frequency:   frequency,
		CustomDays:  normalizeCustomDays(customDays),
		TaskIDs:     taskIDs,
		HasEndGoal:  hasEndGoal,
		EndGoalDays: endGoalDays,
		TotalDays:   totalDays,
		SortOrder:   0,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(title, description, color, icon, frequency string, customDays []int, taskIDs []string, hasEndGoal bool, endGoalDays int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	if frequency == "" {
		frequency = h.Frequency
	}
	if len(customDays) > 0 {
		frequency = HabitFreqCustom
	}

	cleanDesc := strings.TrimSpace(description)

	if err := validateHabit(title, cleanDesc, color, frequency, customDays, hasEndGoal, endGoalDays); err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	h.Title = strings.TrimSpace(title)
	h.Description = cleanDesc
	h.Color = color
	h.Icon = icon
	h.Frequency = frequency
	h.CustomDays = normalizeCustomDays(customDays)
	h.TaskIDs = taskIDs
	h.HasEndGoal = hasEndGoal
	h.EndGoalDays = endGoalDays
	if hasEndGoal {
		h.TotalDays = endGoalDays
	} else {
		h.TotalDays = 0
	}

	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) ChangePosition(newOrder int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) UpdateStreaks(current, best int) {
	h.CurrentStreak = current
	h.BestStreak = best
	h.UpdatedAt = time.Now().UTC()
}

// GoalLengthDays returns the habit's goal horizon in days, or 0 when the
// habit is open-ended.
func (h *Habit) GoalLengthDays() int {
	if !h.HasEndGoal {
		return 0
	}
	if h.EndGoalDays > 0 {
		return h.EndGoalDays
	}
	return h.TotalDays
}

// StatusOn reports what happened on the given calendar day. The DailyTasks
// record is authoritative when present; plain CompletedDays membership is the
// fallback. A day with no record at all is NoData, which callers treat as
// not-completed, never as skipped.
func (h *Habit) StatusOn(day string) DayStatus {
	if rec, ok := h.DailyTasks[day]; ok {
		if rec.AllCompleted {
			return StatusCompleted
		}
		if len(rec.CompletedTasks) > 0 {
			return StatusPartial
		}
		return StatusMissed
	}

	if h.CompletedDays[day] {
		return StatusCompleted
	}

	return StatusNoData
}

// ActiveOn reports whether the day falls inside the habit's lifetime: on or
// after creation and, for end-goal habits, within the goal horizon.
func (h *Habit) ActiveOn(day time.Time) bool {
	created := h.CreatedAt.In(day.Location())
	dayKey := DayKey(day)

	if dayKey < DayKey(created) {
		return false
	}

	if goal := h.GoalLengthDays(); goal > 0 {
		endKey := DayKey(created.AddDate(0, 0, goal-1))
		if dayKey > endKey {
			return false
		}
	}

	return true
}

// ScheduledOn reports whether the habit expects a completion on the given
// day. Daily habits are scheduled every day, custom habits only on their
// chosen weekdays, and weekly habits on the weekday they were created.
func (h *Habit) ScheduledOn(day time.Time) bool {
	switch h.Frequency {
	case HabitFreqCustom:
		wd := int(day.Weekday())
		for _, d := range h.CustomDays {
			if d == wd {
				return true
			}
		}
		return false
	case HabitFreqWeekly:
		return day.Weekday() == h.CreatedAt.In(day.Location()).Weekday()
	default:
		return true
	}
}

// Hydrate attaches completion rows to the habit's in-memory day sets,
// replacing any previously hydrated data.
func (h *Habit) Hydrate(completions []*Completion) {
	h.CompletedDays = make(map[string]bool, len(completions))
	h.DailyTasks = make(map[string]TaskRecord)

	for _, c := range completions {
		if c == nil || c.HabitID != h.ID || c.DeletedAt != nil {
			continue
		}
		if c.AllCompleted {
			h.CompletedDays[c.Day] = true
		}
		if len(c.CompletedTasks) > 0 || len(h.TaskIDs) > 0 {
			h.DailyTasks[c.Day] = TaskRecord{
				CompletedTasks: c.CompletedTasks,
				AllCompleted:   c.AllCompleted,
			}
		}
	}
}
