package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/tomato/internal/ports"
)

// achievementRepository implements ports.AchievementRepository using SQLite.
type achievementRepository struct {
	db *sql.DB
}

func newAchievementRepository(db *sql.DB) ports.AchievementRepository {
	return &achievementRepository{db: db}
}

// Unlock records an achievement; a second unlock is reported as false.
func (r *achievementRepository) Unlock(ctx context.Context, id string, at time.Time) (bool, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO achievements (id, unlocked_at) VALUES (?, ?)`, id, at)
	if isUniqueConstraintError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return true, nil
}

// FindAll returns unlock times keyed by achievement id.
func (r *achievementRepository) FindAll(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, unlocked_at FROM achievements`)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	unlocked := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocked[id] = at
	}
	return unlocked, rows.Err()
}
