package services

import (
	"context"
	"time"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-stats-engine/internal/core/stats"
)

// StatsService glues storage to the pure calculation core: it loads a user's
// habits, hydrates them with completion rows for the window in question, and
// hands the snapshot to the stats package. All date math lives in the core;
// all I/O lives here.
type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository) *StatsService {
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
	}
}

// ConsistencyReport packages the consistency percentage with its trend for
// the period screen.
type ConsistencyReport struct {
	Consistency int          `json:"consistency"`
	Trend       domain.Trend `json:"trend"`
	TrendDelta  int          `json:"trend_delta"`
	Label       string       `json:"label"`
	Color       string       `json:"color"`
}

func referenceOf(input domain.StatsInput) time.Time {
	if input.Reference.IsZero() {
		return time.Now()
	}
	return input.Reference
}

func (s *StatsService) loadHydrated(ctx context.Context, userID string, r domain.DateRange) ([]*domain.Habit, error) {
	all, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	habits := make([]*domain.Habit, 0, len(all))
	for _, h := range all {
		if h.ArchivedAt != nil {
			continue
		}
		habits = append(habits, h)
	}

	completions, err := s.completionRepo.ListByUserID(ctx, userID, domain.DayKey(r.Start), domain.DayKey(r.End))
	if err != nil {
		return nil, err
	}

	byHabit := make(map[string][]*domain.Completion, len(habits))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}

	for _, h := range habits {
		h.Hydrate(byHabit[h.ID])
	}

	return habits, nil
}

func (s *StatsService) GetPeriodStats(ctx context.Context, input domain.StatsInput) (*domain.PeriodStats, error) {
	ref := referenceOf(input)

	r := stats.ClampToReference(stats.ResolveRange(input.Period, ref), ref)

	habits, err := s.loadHydrated(ctx, input.UserID, r)
	if err != nil {
		return nil, err
	}

	r = stats.ClampToHabits(r, habits)

	return stats.ComputeStats(habits, r), nil
}

func (s *StatsService) GetConsistency(ctx context.Context, input domain.StatsInput) (*ConsistencyReport, error) {
	ref := referenceOf(input)

	r := stats.ClampToReference(stats.ResolveRange(input.Period, ref), ref)

	habits, err := s.loadHydrated(ctx, input.UserID, r)
	if err != nil {
		return nil, err
	}

	r = stats.ClampToHabits(r, habits)

	consistency := stats.Consistency(habits, r)

	computed := stats.ComputeStats(habits, r)
	values := make([]float64, 0, len(computed.DailyStats))
	for _, ds := range computed.DailyStats {
		if ds.Total > 0 {
			values = append(values, ds.CompletionRate)
		}
	}

	return &ConsistencyReport{
		Consistency: consistency,
		Trend:       stats.ClassifyTrend(values, stats.DefaultTrendThreshold),
		TrendDelta:  stats.TrendDelta(values),
		Label:       stats.FormatPercentage(float64(consistency)),
		Color:       stats.ColorForPercentage(float64(consistency)),
	}, nil
}

func (s *StatsService) GetStreaks(ctx context.Context, input domain.StatsInput) (*domain.StreakOverview, error) {
	ref := referenceOf(input)

	r := stats.RollingRange(stats.DefaultMaxStreakDays+1, ref)

	habits, err := s.loadHydrated(ctx, input.UserID, r)
	if err != nil {
		return nil, err
	}

	overview := &domain.StreakOverview{
		GlobalStreak: stats.GlobalStreak(habits, ref, stats.DefaultMaxStreakDays),
		Habits:       make([]domain.HabitStreaks, 0, len(habits)),
	}

	overview.Tier = stats.TierForStreak(overview.GlobalStreak)
	if next, toGo, ok := stats.NextTier(overview.GlobalStreak); ok {
		overview.NextTier = &next
		overview.DaysToNextTier = toGo
	}

	for _, h := range habits {
		overview.Habits = append(overview.Habits, domain.HabitStreaks{
			HabitID:       h.ID,
			Title:         h.Title,
			Color:         h.Color,
			Icon:          h.Icon,
			CurrentStreak: stats.CurrentStreak(h, ref),
			BestStreak:    stats.BestStreak(h, r),
		})
	}

	return overview, nil
}

// GetPredictions forecasts every end-goal habit. Habits without a goal are
// filtered here, upholding the predictor's precondition.
func (s *StatsService) GetPredictions(ctx context.Context, input domain.StatsInput) ([]domain.Prediction, error) {
	ref := referenceOf(input)

	all, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	r := stats.ClampToHabits(stats.ResolveRange(stats.PeriodAll, ref), all)

	habits, err := s.loadHydrated(ctx, input.UserID, r)
	if err != nil {
		return nil, err
	}

	predictions := make([]domain.Prediction, 0)
	for _, h := range habits {
		if h.GoalLengthDays() <= 0 {
			continue
		}
		predictions = append(predictions, stats.Predict(h, ref))
	}

	return predictions, nil
}
