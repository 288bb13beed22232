package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.CompletionRepository = (*InMemoryCompletionRepository)(nil)
)

// InMemoryHabitRepository backs handler and end-to-end tests that need the
// full repository contract without a database.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[habit.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	habit.Version = stored.Version + 1
	habit.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].UpdatedAt.Before(habits[j].UpdatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, best int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	habit.CurrentStreak = current
	habit.BestStreak = best
	habit.UpdatedAt = time.Now().UTC()
	habit.Version++
	return nil
}

type InMemoryCompletionRepository struct {
	store map[string]*domain.Completion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store: make(map[string]*domain.Completion),
	}
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.store {
		if stored.HabitID == c.HabitID && stored.Day == c.Day && stored.DeletedAt == nil {
			return domain.ErrCompletionConflict
		}
	}

	r.store[c.ID] = c
	return nil
}

func (r *InMemoryCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrCompletionNotFound
	}
	return c, nil
}

func (r *InMemoryCompletionRepository) GetByHabitAndDay(ctx context.Context, habitID, day string) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.store {
		if c.HabitID == habitID && c.Day == day && c.DeletedAt == nil {
			return c, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (r *InMemoryCompletionRepository) ListByHabitID(ctx context.Context, habitID string, fromDay, toDay string) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.HabitID == habitID && c.DeletedAt == nil && c.Day >= fromDay && c.Day <= toDay {
			completions = append(completions, c)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Day > completions[j].Day
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) ListByUserID(ctx context.Context, userID string, fromDay, toDay string) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.UserID == userID && c.DeletedAt == nil && c.Day >= fromDay && c.Day <= toDay {
			completions = append(completions, c)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Day > completions[j].Day
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) Update(ctx context.Context, c *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[c.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrCompletionNotFound
	}

	c.Version = stored.Version + 1
	c.UpdatedAt = time.Now().UTC()
	r.store[c.ID] = c
	return nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.store[id]
	if !ok || c.DeletedAt != nil || c.UserID != userID {
		return domain.ErrCompletionNotFound
	}

	now := time.Now().UTC()
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.Version++
	return nil
}

func (r *InMemoryCompletionRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.UserID == userID && c.UpdatedAt.After(since) {
			completions = append(completions, c)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].UpdatedAt.Before(completions[j].UpdatedAt)
	})

	return completions, nil
}
