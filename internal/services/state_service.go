package services

import (
	"context"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	tasks        *TaskService
	sessions     *SessionService
	stats        *StatsService
	achievements *AchievementService
	presets      *PresetService
}

var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service.
func NewStateService(tasks *TaskService, sessions *SessionService, stats *StatsService, achievements *AchievementService, presets *PresetService) *StateService {
	return &StateService{
		tasks:        tasks,
		sessions:     sessions,
		stats:        stats,
		achievements: achievements,
		presets:      presets,
	}
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx, ListTasksRequest{Status: status})
}

// CreateTask implements ports.MCPStateProvider.
func (s *StateService) CreateTask(ctx context.Context, title string, estimate int) (*domain.Task, error) {
	return s.tasks.AddTask(ctx, AddTaskRequest{Title: title, Estimate: estimate})
}

// FindTask implements ports.MCPStateProvider.
func (s *StateService) FindTask(ctx context.Context, query string) (*domain.Task, error) {
	return s.tasks.FindTask(ctx, query)
}

// Stats implements ports.MCPStateProvider.
func (s *StateService) Stats(ctx context.Context) (domain.UserStats, error) {
	return s.stats.Snapshot(ctx)
}

// Achievements implements ports.MCPStateProvider.
func (s *StateService) Achievements(ctx context.Context) ([]ports.AchievementStatus, error) {
	stats, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.achievements.Statuses(ctx, stats)
}

// RecentSessions implements ports.MCPStateProvider.
func (s *StateService) RecentSessions(ctx context.Context, days int) ([]*domain.SessionRecord, error) {
	return s.sessions.RecentSessions(ctx, days)
}

// Presets implements ports.MCPStateProvider.
func (s *StateService) Presets() ([]domain.Preset, error) {
	return s.presets.List()
}

// ApplyPreset implements ports.MCPStateProvider.
func (s *StateService) ApplyPreset(name string) (domain.Preset, error) {
	return s.presets.Apply(name)
}
