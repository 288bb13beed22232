package workers

import (
	"context"
	"log"
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/stats"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, best int) error
}

type CompletionRepository interface {
	ListByHabitID(ctx context.Context, habitID string, fromDay, toDay string) ([]*domain.Completion, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker keeps the cached streak columns roughly in sync with the raw
// completion data. The cache is display-only; the stats engine always
// recomputes from raw rows, so a dropped job costs nothing but staleness.
type StreakWorker struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	jobs           chan StreakJob
}

func NewStreakWorker(hRepo HabitRepository, cRepo CompletionRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo:      hRepo,
		completionRepo: cRepo,
		jobs:           make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker error fetching habit %s: %v", job.HabitID, err)
		return
	}

	now := time.Now()
	window := stats.RollingRange(stats.DefaultMaxStreakDays+1, now)

	completions, err := w.completionRepo.ListByHabitID(ctx, habit.ID, domain.DayKey(window.Start), domain.DayKey(window.End))
	if err != nil {
		log.Printf("Worker error fetching completions for %s: %v", job.HabitID, err)
		return
	}

	habit.Hydrate(completions)

	current := stats.CurrentStreak(habit, now)
	best := stats.BestStreak(habit, window)

	// The historical best outside the recompute window must never regress.
	if habit.BestStreak > best {
		best = habit.BestStreak
	}

	if habit.CurrentStreak != current || habit.BestStreak != best {
		if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, current, best); err != nil {
			log.Printf("Worker failed to update streaks for %s: %v", job.HabitID, err)
		} else {
			log.Printf("Streaks updated for %s: current=%d, best=%d", habit.Title, current, best)
		}
	}
}
