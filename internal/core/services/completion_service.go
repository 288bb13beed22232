package services

import (
	"context"
	"errors"
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/workers"
)

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *CompletionService {
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type MarkDayInput struct {
	HabitID        string
	UserID         string
	Day            string
	CompletedTasks []string
	AllCompleted   bool
	Notes          string
}

// MarkDay records (or re-records) what happened on one habit-day. When a row
// already exists for the day it is updated in place, so repeated optimistic
// taps from the app converge on one record per day.
func (s *CompletionService) MarkDay(ctx context.Context, input MarkDayInput) (*domain.Completion, error) {
	habit, err := s.habitRepo.GetByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != input.UserID {
		return nil, domain.ErrUnauthorized
	}

	allCompleted := input.AllCompleted
	if len(habit.TaskIDs) > 0 && !allCompleted {
		allCompleted = len(input.CompletedTasks) >= len(habit.TaskIDs)
	}

	existing, err := s.repo.GetByHabitAndDay(ctx, input.HabitID, input.Day)
	if err != nil && !errors.Is(err, domain.ErrCompletionNotFound) {
		return nil, err
	}

	var completion *domain.Completion
	if existing != nil {
		existing.CompletedTasks = input.CompletedTasks
		existing.AllCompleted = allCompleted
		existing.Notes = input.Notes
		existing.UpdatedAt = time.Now().UTC()

		if err := existing.Validate(); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		completion = existing
	} else {
		completion = domain.NewCompletion(input.HabitID, input.UserID, input.Day, input.CompletedTasks, allCompleted)
		completion.Notes = input.Notes

		if err := completion.Validate(); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, completion); err != nil {
			return nil, err
		}
	}

	s.worker.Enqueue(input.HabitID)

	return completion, nil
}

// UnmarkDay soft-deletes the day's record, as when the user undoes an
// accidental tap.
func (s *CompletionService) UnmarkDay(ctx context.Context, habitID, userID, day string) error {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return domain.ErrUnauthorized
	}

	completion, err := s.repo.GetByHabitAndDay(ctx, habitID, day)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, completion.ID, userID); err != nil {
		return err
	}

	s.worker.Enqueue(habitID)

	return nil
}

func (s *CompletionService) ListByHabitID(ctx context.Context, habitID, userID, fromDay, toDay string) ([]*domain.Completion, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.ListByHabitID(ctx, habitID, fromDay, toDay)
}

func (s *CompletionService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.Completion, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
