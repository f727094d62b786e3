package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// SessionService persists finished sessions. It implements
// ports.SessionRecorder.
type SessionService struct {
	storage   ports.Storage
	git       ports.GitDetector
	workDir   string
	dailyGoal func() int
	now       func() time.Time
	logger    *slog.Logger
}

var _ ports.SessionRecorder = (*SessionService)(nil)

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithGitContext attaches branch and commit of workDir to work sessions.
func WithGitContext(detector ports.GitDetector, workDir string) SessionOption {
	return func(s *SessionService) {
		s.git = detector
		s.workDir = workDir
	}
}

// WithDailyGoal sets the source of the daily pomodoro target.
func WithDailyGoal(fn func() int) SessionOption {
	return func(s *SessionService) { s.dailyGoal = fn }
}

// WithSessionClock overrides the time source.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *SessionService) { s.logger = logger }
}

// NewSessionService creates a session service over storage.
func NewSessionService(storage ports.Storage, opts ...SessionOption) *SessionService {
	s := &SessionService{
		storage:   storage,
		dailyGoal: func() int { return domain.DefaultDailyGoal },
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordSession stores a finished session. Work sessions also count toward
// today's goal. A reference to a task that no longer exists is dropped.
func (s *SessionService) RecordSession(ctx context.Context, sessionType domain.SessionType, durationMinutes int, taskRef string) (*domain.SessionRecord, error) {
	var taskID *string
	if taskRef != "" {
		_, err := s.storage.Tasks().FindByID(ctx, taskRef)
		switch {
		case err == nil:
			taskID = &taskRef
		case errors.Is(err, domain.ErrTaskNotFound):
			s.logger.Warn("recording session without deleted task", "task_id", taskRef)
		default:
			return nil, fmt.Errorf("failed to look up task: %w", err)
		}
	}

	record, err := domain.NewSessionRecord(sessionType, durationMinutes, taskID)
	if err != nil {
		return nil, err
	}
	record.CompletedAt = s.now()

	if sessionType == domain.SessionTypeWork && s.git != nil {
		if info, err := s.git.Detect(ctx, s.workDir); err == nil && info != nil {
			record.SetGitContext(info.Branch, info.Commit)
		}
	}

	if err := s.storage.Sessions().Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if sessionType == domain.SessionTypeWork {
		day := domain.DayKey(record.CompletedAt)
		if _, err := s.storage.Goals().Increment(ctx, day, s.dailyGoal()); err != nil {
			return record, fmt.Errorf("failed to update daily goal: %w", err)
		}
	}

	s.logger.Info("session recorded",
		"type", string(sessionType),
		"minutes", durationMinutes,
		"task_id", taskRef,
	)
	return record, nil
}

// IncrementTaskProgress counts one pomodoro against the task.
func (s *SessionService) IncrementTaskProgress(ctx context.Context, taskRef string) error {
	if taskRef == "" {
		return nil
	}
	if err := s.storage.Tasks().IncrementCompleted(ctx, taskRef); err != nil {
		return fmt.Errorf("failed to increment task progress: %w", err)
	}
	return nil
}

// RecentSessions returns records from the last n days, newest first.
func (s *SessionService) RecentSessions(ctx context.Context, days int) ([]*domain.SessionRecord, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	since := startOfDay(now).AddDate(0, 0, -(days - 1))
	return s.storage.Sessions().FindRecent(ctx, since)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
