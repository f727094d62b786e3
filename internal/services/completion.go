package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/timer"
)

// CompletionMessage returns the notification copy for a finished session.
// taskTitle may be empty.
func CompletionMessage(c domain.Completion, taskTitle string) (title, body string) {
	if c.Type != domain.SessionTypeWork {
		return "Break over", "Ready to focus again?"
	}
	if taskTitle != "" {
		return "Pomodoro completed! 🎉", fmt.Sprintf("Great focus on %q!", taskTitle)
	}
	return "Pomodoro completed! 🎉", "Time for a break."
}

// TaskNamer resolves a task reference to a display title.
type TaskNamer interface {
	TaskTitle(ctx context.Context, ref string) string
}

// PersistenceHandler records finished work sessions, advances the task and
// then evaluates achievements against fresh statistics.
type PersistenceHandler struct {
	recorder     ports.SessionRecorder
	stats        ports.StatsProvider
	achievements ports.AchievementEvaluator
	onUnlock     func([]domain.UnlockedAchievement)
}

// NewPersistenceHandler creates the handler. stats and achievements may be
// nil to skip evaluation; onUnlock may be nil.
func NewPersistenceHandler(recorder ports.SessionRecorder, stats ports.StatsProvider, achievements ports.AchievementEvaluator, onUnlock func([]domain.UnlockedAchievement)) *PersistenceHandler {
	return &PersistenceHandler{
		recorder:     recorder,
		stats:        stats,
		achievements: achievements,
		onUnlock:     onUnlock,
	}
}

// HandleCompletion implements timer.Handler. Breaks are ignored.
func (h *PersistenceHandler) HandleCompletion(ctx context.Context, c domain.Completion) error {
	if c.Type != domain.SessionTypeWork {
		return nil
	}

	if _, err := h.recorder.RecordSession(ctx, c.Type, c.DurationMinutes, c.TaskRef); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	if c.TaskRef != "" {
		err := h.recorder.IncrementTaskProgress(ctx, c.TaskRef)
		if err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
	}

	if h.stats == nil || h.achievements == nil {
		return nil
	}
	stats, err := h.stats.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to build stats snapshot: %w", err)
	}
	unlocked, err := h.achievements.Evaluate(ctx, stats)
	if len(unlocked) > 0 && h.onUnlock != nil {
		h.onUnlock(unlocked)
	}
	if err != nil {
		return fmt.Errorf("failed to evaluate achievements: %w", err)
	}
	return nil
}

// NotificationHandler shows a desktop notification for every completion.
type NotificationHandler struct {
	notifier ports.Notifier
	tasks    TaskNamer
}

// NewNotificationHandler creates the handler. tasks may be nil.
func NewNotificationHandler(notifier ports.Notifier, tasks TaskNamer) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, tasks: tasks}
}

// HandleCompletion implements timer.Handler.
func (h *NotificationHandler) HandleCompletion(ctx context.Context, c domain.Completion) error {
	if !h.notifier.PermissionGranted() {
		return nil
	}
	var taskTitle string
	if h.tasks != nil && c.Type == domain.SessionTypeWork {
		taskTitle = h.tasks.TaskTitle(ctx, c.TaskRef)
	}
	title, body := CompletionMessage(c, taskTitle)
	return h.notifier.Notify(title, body)
}

// SoundSettings is the user's audio preference.
type SoundSettings struct {
	Enabled bool
	Sound   domain.Sound
}

// SoundHandler plays the configured sound when enabled.
type SoundHandler struct {
	player   ports.AudioPlayer
	settings func() SoundSettings
}

// NewSoundHandler creates the handler. settings is read on every completion
// so preference changes apply without a restart.
func NewSoundHandler(player ports.AudioPlayer, settings func() SoundSettings) *SoundHandler {
	return &SoundHandler{player: player, settings: settings}
}

// HandleCompletion implements timer.Handler.
func (h *SoundHandler) HandleCompletion(ctx context.Context, c domain.Completion) error {
	s := h.settings()
	if !s.Enabled {
		return nil
	}
	if s.Sound == "" {
		s.Sound = domain.SoundBell
	}
	return h.player.Play(s.Sound)
}

// CompletionDeps are the collaborators wired into a dispatcher.
// Nil collaborators are skipped.
type CompletionDeps struct {
	Recorder     ports.SessionRecorder
	Stats        ports.StatsProvider
	Achievements ports.AchievementEvaluator
	OnUnlock     func([]domain.UnlockedAchievement)
	Notifier     ports.Notifier
	Tasks        TaskNamer
	Audio        ports.AudioPlayer
	Sound        func() SoundSettings
	Logger       *slog.Logger
}

// RegisterCompletionHandlers subscribes each collaborator to d.
func RegisterCompletionHandlers(d *timer.Dispatcher, deps CompletionDeps) {
	if deps.Recorder != nil {
		d.Register("persistence", NewPersistenceHandler(deps.Recorder, deps.Stats, deps.Achievements, deps.OnUnlock))
	}
	if deps.Notifier != nil {
		d.Register("notification", NewNotificationHandler(deps.Notifier, deps.Tasks))
	}
	if deps.Audio != nil && deps.Sound != nil {
		d.Register("sound", NewSoundHandler(deps.Audio, deps.Sound))
	}
	if deps.Logger != nil {
		deps.Logger.Debug("completion handlers registered",
			"persistence", deps.Recorder != nil,
			"notification", deps.Notifier != nil,
			"sound", deps.Audio != nil,
		)
	}
}
