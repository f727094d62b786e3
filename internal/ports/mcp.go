package ports

import (
	"context"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/timer"
)

// TimerControl is the slice of the timer exposed to remote clients.
// *timer.Timer implements it.
type TimerControl interface {
	State() timer.State
	Start() error
	Pause()
	Reset()
	Skip()
	SwitchSession(t domain.SessionType) error
	SelectTask(ref string)
}

// MCPStateProvider provides read access and task/preset operations to
// the MCP server. This is a driven port (implemented by the services layer).
type MCPStateProvider interface {
	ListTasks(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)
	CreateTask(ctx context.Context, title string, estimate int) (*domain.Task, error)
	FindTask(ctx context.Context, query string) (*domain.Task, error)
	Stats(ctx context.Context) (domain.UserStats, error)
	Achievements(ctx context.Context) ([]AchievementStatus, error)
	RecentSessions(ctx context.Context, days int) ([]*domain.SessionRecord, error)
	Presets() ([]domain.Preset, error)
	ApplyPreset(name string) (domain.Preset, error)
}

// AchievementStatus pairs a definition with its unlock state and progress.
type AchievementStatus struct {
	domain.Achievement
	Unlocked   bool
	UnlockedAt string
	Progress   float64
}
