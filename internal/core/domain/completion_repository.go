package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
	ErrCompletionConflict = errors.New("completion version conflict")
)

type CompletionRepository interface {
	// Create persists a new completion row. At most one active row may exist
	// per habit per day; a duplicate day yields ErrCompletionConflict.
	Create(ctx context.Context, completion *Completion) error

	// Update modifies an existing completion row.
	// Implementations must handle optimistic locking (version check).
	Update(ctx context.Context, completion *Completion) error

	// Delete performs a soft delete. It requires userID to ensure the caller
	// actually owns the row being deleted.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) completion by its ID.
	GetByID(ctx context.Context, id string) (*Completion, error)

	// GetByHabitAndDay retrieves the active completion for one habit-day,
	// or ErrCompletionNotFound when the day has no record.
	GetByHabitAndDay(ctx context.Context, habitID, day string) (*Completion, error)

	// ListByHabitID retrieves completions for a habit within an inclusive
	// day-key range. Optimized for calendar and chart views.
	ListByHabitID(ctx context.Context, habitID string, fromDay, toDay string) ([]*Completion, error)

	// ListByUserID retrieves all of a user's completions within an inclusive
	// day-key range, across every habit. This is the stats engine's feed.
	ListByUserID(ctx context.Context, userID string, fromDay, toDay string) ([]*Completion, error)

	// GetChanges [SYNC] returns all changes (creations, updates, soft
	// deletes) after the 'since' timestamp, for offline-first clients.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Completion, error)
}
