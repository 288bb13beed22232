package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ritmoapp/ritmo-stats-engine/internal/core/domain"
)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

// completionRow adapts the domain type for sqlx scanning: the task id list
// lives in a text[] column, which sqlx cannot map onto a plain []string.
type completionRow struct {
	domain.Completion
	Tasks pq.StringArray `db:"completed_tasks"`
}

func (row completionRow) toDomain() *domain.Completion {
	c := row.Completion
	c.CompletedTasks = []string(row.Tasks)
	return &c
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO completions (
			id, habit_id, user_id,
			day, completed_tasks, all_completed, notes,
			version, created_at, updated_at, deleted_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10, $11
		)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.HabitID, c.UserID,
		c.Day, pq.Array(c.CompletedTasks), c.AllCompleted, c.Notes,
		c.Version, c.CreatedAt, c.UpdatedAt, c.DeletedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return errors.New("referenced habit or user does not exist")
			}
			if pqErr.Code == "23505" {
				return domain.ErrCompletionConflict
			}
		}
		return err
	}
	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	var row completionRow
	query := `SELECT * FROM completions WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PostgresCompletionRepository) GetByHabitAndDay(ctx context.Context, habitID, day string) (*domain.Completion, error) {
	var row completionRow
	query := `
		SELECT * FROM completions
		WHERE habit_id = $1 AND day = $2 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &row, query, habitID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PostgresCompletionRepository) ListByHabitID(ctx context.Context, habitID string, fromDay, toDay string) ([]*domain.Completion, error) {
	rows := []completionRow{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		  AND day >= $2
		  AND day <= $3
		  AND deleted_at IS NULL
		ORDER BY day DESC`

	err := r.db.SelectContext(ctx, &rows, query, habitID, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	completions := make([]*domain.Completion, 0, len(rows))
	for _, row := range rows {
		completions = append(completions, row.toDomain())
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) ListByUserID(ctx context.Context, userID string, fromDay, toDay string) ([]*domain.Completion, error) {
	rows := []completionRow{}

	query := `
		SELECT * FROM completions
		WHERE user_id = $1
		  AND day >= $2
		  AND day <= $3
		  AND deleted_at IS NULL
		ORDER BY day DESC`

	err := r.db.SelectContext(ctx, &rows, query, userID, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	completions := make([]*domain.Completion, 0, len(rows))
	for _, row := range rows {
		completions = append(completions, row.toDomain())
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) Update(ctx context.Context, c *domain.Completion) error {
	c.Version++
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE completions
		SET completed_tasks = $1,
		    all_completed = $2,
		    notes = $3,
		    version = $4,
		    updated_at = $5
		WHERE id = $6
		  AND version = $7  -- Optimistic Lock check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		pq.Array(c.CompletedTasks), c.AllCompleted, c.Notes,
		c.Version, c.UpdatedAt,
		c.ID, c.Version-1,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, c.ID)
		if !exists {
			return domain.ErrCompletionNotFound
		}
		return domain.ErrCompletionConflict
	}

	return nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE completions
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3 -- Security Check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Completion, error) {
	rows := []completionRow{}

	query := `
		SELECT * FROM completions
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	err := r.db.SelectContext(ctx, &rows, query, userID, since)
	if err != nil {
		return nil, err
	}

	completions := make([]*domain.Completion, 0, len(rows))
	for _, row := range rows {
		completions = append(completions, row.toDomain())
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM completions WHERE id = $1", id)
	return count > 0, err
}
