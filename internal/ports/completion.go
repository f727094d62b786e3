package ports

import (
	"context"

	"github.com/xvierd/tomato/internal/domain"
)

// The interfaces below are the collaborators fed by timer completions.
// Each is consumed by exactly one completion handler.

// SessionRecorder persists finished work sessions.
type SessionRecorder interface {
	// RecordSession stores a finished session. taskRef may be empty.
	RecordSession(ctx context.Context, sessionType domain.SessionType, durationMinutes int, taskRef string) (*domain.SessionRecord, error)

	// IncrementTaskProgress counts one pomodoro against the task.
	IncrementTaskProgress(ctx context.Context, taskRef string) error
}

// Notifier shows a desktop notification.
type Notifier interface {
	// PermissionGranted reports whether notifications may be shown.
	PermissionGranted() bool

	// Notify shows a notification.
	Notify(title, body string) error
}

// AudioPlayer plays a named completion sound.
type AudioPlayer interface {
	Play(sound domain.Sound) error
}

// StatsProvider builds the statistics snapshot from storage.
type StatsProvider interface {
	Snapshot(ctx context.Context) (domain.UserStats, error)
}

// AchievementEvaluator unlocks achievements reached by a stats snapshot.
type AchievementEvaluator interface {
	// Evaluate returns the achievements newly unlocked by stats.
	Evaluate(ctx context.Context, stats domain.UserStats) ([]domain.UnlockedAchievement, error)
}

// ConfigSource supplies the timer durations and reports changes.
type ConfigSource interface {
	// Current returns the active timer configuration.
	Current() domain.TimerConfig

	// Subscribe registers fn for future changes and returns an unsubscribe
	// function.
	Subscribe(fn func(domain.TimerConfig)) (cancel func())
}
