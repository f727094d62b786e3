package domain

import "time"

// AchievementKind groups achievements by the statistic they measure.
type AchievementKind string

const (
	KindPomodoros  AchievementKind = "pomodoros"
	KindStreak     AchievementKind = "streak"
	KindFocusTime  AchievementKind = "focus_time"
	KindPerfectDay AchievementKind = "perfect_day"
)

// Achievement is a milestone unlocked from user statistics.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Kind        AchievementKind
	Requirement int
}

// Value extracts the statistic this achievement measures.
func (a Achievement) Value(s UserStats) int {
	switch a.Kind {
	case KindPomodoros:
		return s.TotalPomodoros
	case KindStreak:
		if s.LongestStreak > s.CurrentStreak {
			return s.LongestStreak
		}
		return s.CurrentStreak
	case KindFocusTime:
		return s.TotalFocusMinutes
	case KindPerfectDay:
		return s.PerfectDays
	}
	return 0
}

// Reached reports whether the stats satisfy the requirement.
func (a Achievement) Reached(s UserStats) bool {
	return a.Value(s) >= a.Requirement
}

// Progress returns completion towards the requirement, capped at 1.
func (a Achievement) Progress(s UserStats) float64 {
	if a.Requirement <= 0 {
		return 1
	}
	p := float64(a.Value(s)) / float64(a.Requirement)
	if p > 1 {
		return 1
	}
	return p
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	Achievement
	UnlockedAt time.Time
}

// Achievements returns every known achievement definition.
func Achievements() []Achievement {
	return []Achievement{
		{ID: "first_pomodoro", Name: "First Steps", Description: "Complete your first pomodoro", Icon: "🍅", Kind: KindPomodoros, Requirement: 1},
		{ID: "ten_pomodoros", Name: "Getting Started", Description: "Complete 10 pomodoros", Icon: "🔟", Kind: KindPomodoros, Requirement: 10},
		{ID: "fifty_pomodoros", Name: "Focused Mind", Description: "Complete 50 pomodoros", Icon: "🧠", Kind: KindPomodoros, Requirement: 50},
		{ID: "hundred_pomodoros", Name: "Century", Description: "Complete 100 pomodoros", Icon: "💯", Kind: KindPomodoros, Requirement: 100},
		{ID: "three_day_streak", Name: "On a Roll", Description: "Reach your daily goal 3 days in a row", Icon: "🔥", Kind: KindStreak, Requirement: 3},
		{ID: "week_streak", Name: "Week Warrior", Description: "Reach your daily goal 7 days in a row", Icon: "📅", Kind: KindStreak, Requirement: 7},
		{ID: "month_streak", Name: "Unstoppable", Description: "Reach your daily goal 30 days in a row", Icon: "🏆", Kind: KindStreak, Requirement: 30},
		{ID: "hour_focus", Name: "Hour of Power", Description: "Focus for 60 minutes in total", Icon: "⏱", Kind: KindFocusTime, Requirement: 60},
		{ID: "ten_hour_focus", Name: "Deep Diver", Description: "Focus for 10 hours in total", Icon: "🌊", Kind: KindFocusTime, Requirement: 600},
		{ID: "perfect_day", Name: "Perfect Day", Description: "Reach your daily goal", Icon: "⭐", Kind: KindPerfectDay, Requirement: 1},
	}
}

// FindAchievement returns the definition with the given id.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range Achievements() {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
