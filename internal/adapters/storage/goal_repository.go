package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// goalRepository implements ports.GoalRepository using SQLite.
type goalRepository struct {
	db *sql.DB
}

func newGoalRepository(db *sql.DB) ports.GoalRepository {
	return &goalRepository{db: db}
}

// Increment upserts the day and adds one completed pomodoro. The target is
// only written when the row is created.
func (r *goalRepository) Increment(ctx context.Context, date string, target int) (*domain.DailyGoal, error) {
	query := `
		INSERT INTO daily_goals (date, target, completed) VALUES (?, ?, 1)
		ON CONFLICT(date) DO UPDATE SET completed = completed + 1
	`
	if _, err := r.db.ExecContext(ctx, query, date, target); err != nil {
		return nil, fmt.Errorf("failed to update daily goal: %w", err)
	}

	goal, err := r.Find(ctx, date)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// Find returns the goal for a day, or nil when none was recorded.
func (r *goalRepository) Find(ctx context.Context, date string) (*domain.DailyGoal, error) {
	var g domain.DailyGoal
	err := r.db.QueryRowContext(ctx,
		`SELECT date, target, completed FROM daily_goals WHERE date = ?`, date,
	).Scan(&g.Date, &g.Target, &g.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find daily goal: %w", err)
	}
	return &g, nil
}

// FindAll returns every recorded day, oldest first.
func (r *goalRepository) FindAll(ctx context.Context) ([]domain.DailyGoal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, target, completed FROM daily_goals ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []domain.DailyGoal
	for rows.Next() {
		var g domain.DailyGoal
		if err := rows.Scan(&g.Date, &g.Target, &g.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan daily goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
