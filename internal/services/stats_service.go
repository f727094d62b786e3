package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// StatsService computes statistics snapshots. It implements
// ports.StatsProvider.
type StatsService struct {
	storage   ports.Storage
	dailyGoal func() int
	now       func() time.Time
}

var _ ports.StatsProvider = (*StatsService)(nil)

// NewStatsService creates a stats service. dailyGoal may be nil.
func NewStatsService(storage ports.Storage, dailyGoal func() int) *StatsService {
	if dailyGoal == nil {
		dailyGoal = func() int { return domain.DefaultDailyGoal }
	}
	return &StatsService{storage: storage, dailyGoal: dailyGoal, now: time.Now}
}

// Snapshot combines today's totals, streaks and all-time focus.
func (s *StatsService) Snapshot(ctx context.Context) (domain.UserStats, error) {
	now := s.now()
	stats := domain.UserStats{DailyGoal: s.dailyGoal()}

	var err error
	stats.TotalPomodoros, stats.TotalFocusMinutes, err = s.storage.Sessions().Totals(ctx, domain.SessionTypeWork, time.Time{})
	if err != nil {
		return stats, fmt.Errorf("failed to load totals: %w", err)
	}

	stats.TodayPomodoros, stats.TodayFocusMinutes, err = s.storage.Sessions().Totals(ctx, domain.SessionTypeWork, startOfDay(now))
	if err != nil {
		return stats, fmt.Errorf("failed to load today's totals: %w", err)
	}

	goals, err := s.storage.Goals().FindAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to load daily goals: %w", err)
	}
	stats.CurrentStreak = domain.CurrentStreak(goals, now)
	stats.LongestStreak = domain.LongestStreak(goals)
	stats.PerfectDays = domain.PerfectDays(goals)

	stats.TasksCompleted, err = s.storage.Tasks().CountCompleted(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count tasks: %w", err)
	}

	return stats, nil
}
