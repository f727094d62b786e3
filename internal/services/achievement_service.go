package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// AchievementService unlocks achievements. It implements
// ports.AchievementEvaluator.
type AchievementService struct {
	storage ports.Storage
	now     func() time.Time
}

var _ ports.AchievementEvaluator = (*AchievementService)(nil)

// NewAchievementService creates an achievement service.
func NewAchievementService(storage ports.Storage) *AchievementService {
	return &AchievementService{storage: storage, now: time.Now}
}

// Evaluate unlocks every reached achievement and returns the new ones.
func (s *AchievementService) Evaluate(ctx context.Context, stats domain.UserStats) ([]domain.UnlockedAchievement, error) {
	var unlocked []domain.UnlockedAchievement
	now := s.now()

	for _, a := range domain.Achievements() {
		if !a.Reached(stats) {
			continue
		}
		isNew, err := s.storage.Achievements().Unlock(ctx, a.ID, now)
		if err != nil {
			return unlocked, fmt.Errorf("failed to unlock %s: %w", a.ID, err)
		}
		if isNew {
			unlocked = append(unlocked, domain.UnlockedAchievement{Achievement: a, UnlockedAt: now})
		}
	}
	return unlocked, nil
}

// Statuses lists every achievement with its unlock state and progress.
func (s *AchievementService) Statuses(ctx context.Context, stats domain.UserStats) ([]ports.AchievementStatus, error) {
	unlocked, err := s.storage.Achievements().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	defs := domain.Achievements()
	statuses := make([]ports.AchievementStatus, 0, len(defs))
	for _, a := range defs {
		st := ports.AchievementStatus{Achievement: a, Progress: a.Progress(stats)}
		if at, ok := unlocked[a.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = at.Format(time.DateOnly)
			st.Progress = 1
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
