package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
	ErrUnauthorized  = errors.New("unauthorized")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit.
	// Implementations must handle optimistic locking (version check).
	Update(ctx context.Context, habit *Habit) error

	// Delete removes a habit from the system (soft delete).
	Delete(ctx context.Context, id string) error

	// GetChanges [SYNC] returns only the deltas occurring after a specific date.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateStreaks persists worker-recomputed streak caches. It bumps the
	// row version and updated_at so sync clients see the change as a delta.
	UpdateStreaks(ctx context.Context, id string, current, best int) error
}
