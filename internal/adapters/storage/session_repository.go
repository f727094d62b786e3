package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

const sessionColumns = `id, task_id, type, duration_minutes, completed_at, git_branch, git_commit`

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new session repository.
func newSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

// Save persists a session record.
func (r *sessionRepository) Save(ctx context.Context, record *domain.SessionRecord) error {
	query := `INSERT INTO pomodoro_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.TaskID,
		string(record.Type),
		record.DurationMinutes,
		record.CompletedAt,
		nullableString(record.GitBranch),
		nullableString(record.GitCommit),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// FindRecent returns records completed at or after since, newest first.
func (r *sessionRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM pomodoro_sessions WHERE completed_at >= ? ORDER BY completed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// FindByTask returns all records linked to a task, newest first.
func (r *sessionRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM pomodoro_sessions WHERE task_id = ? ORDER BY completed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// Totals sums records of one type completed at or after since.
func (r *sessionRepository) Totals(ctx context.Context, sessionType domain.SessionType, since time.Time) (int, int, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0) FROM pomodoro_sessions WHERE type = ?`
	args := []any{string(sessionType)}
	if !since.IsZero() {
		query += ` AND completed_at >= ?`
		args = append(args, since)
	}

	var count, minutes int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count, &minutes); err != nil {
		return 0, 0, fmt.Errorf("failed to total sessions: %w", err)
	}
	return count, minutes, nil
}

func scanSessions(rows *sql.Rows) ([]*domain.SessionRecord, error) {
	var records []*domain.SessionRecord
	for rows.Next() {
		var rec domain.SessionRecord
		var taskID, branch, commit sql.NullString

		err := rows.Scan(
			&rec.ID,
			&taskID,
			&rec.Type,
			&rec.DurationMinutes,
			&rec.CompletedAt,
			&branch,
			&commit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if taskID.Valid {
			rec.TaskID = &taskID.String
		}
		rec.GitBranch = branch.String
		rec.GitCommit = commit.String
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
