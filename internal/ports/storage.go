// Package ports defines the interfaces between the tomato core and its
// adapters, following hexagonal architecture.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/tomato/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Save persists a new task.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves all tasks, optionally filtered by status.
	FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)

	// FindByTitle fuzzy-matches open tasks by title, best match first.
	FindByTitle(ctx context.Context, query string) ([]*domain.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// IncrementCompleted adds one finished pomodoro to the task.
	IncrementCompleted(ctx context.Context, id string) error

	// CountCompleted returns how many tasks are completed.
	CountCompleted(ctx context.Context) (int, error)

	// Delete removes a task from storage.
	Delete(ctx context.Context, id string) error
}

// SessionRepository stores finished session records.
// This is a driven port (implemented by adapters).
type SessionRepository interface {
	// Save persists a session record.
	Save(ctx context.Context, record *domain.SessionRecord) error

	// FindRecent returns records completed at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.SessionRecord, error)

	// FindByTask returns all records linked to a task.
	FindByTask(ctx context.Context, taskID string) ([]*domain.SessionRecord, error)

	// Totals sums records of one type completed at or after since.
	// A zero since covers all history.
	Totals(ctx context.Context, sessionType domain.SessionType, since time.Time) (count, minutes int, err error)
}

// GoalRepository stores per-day pomodoro goals.
// This is a driven port (implemented by adapters).
type GoalRepository interface {
	// Increment adds one completed pomodoro to the day, creating the row
	// with the given target if needed.
	Increment(ctx context.Context, date string, target int) (*domain.DailyGoal, error)

	// Find returns the goal for a day, or nil when none was recorded.
	Find(ctx context.Context, date string) (*domain.DailyGoal, error)

	// FindAll returns every recorded day, oldest first.
	FindAll(ctx context.Context) ([]domain.DailyGoal, error)
}

// AchievementRepository stores unlocked achievements.
// This is a driven port (implemented by adapters).
type AchievementRepository interface {
	// Unlock records an achievement. It reports false when it was already
	// unlocked.
	Unlock(ctx context.Context, id string, at time.Time) (bool, error)

	// FindAll returns unlock times keyed by achievement id.
	FindAll(ctx context.Context) (map[string]time.Time, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	Tasks() TaskRepository
	Sessions() SessionRepository
	Goals() GoalRepository
	Achievements() AchievementRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
