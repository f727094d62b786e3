package domain

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day key used for daily goals.
const DateLayout = "2006-01-02"

// DefaultDailyGoal is the number of pomodoros targeted per day.
const DefaultDailyGoal = 8

// maxStreakDays bounds how far back streaks are computed.
const maxStreakDays = 365

// DailyGoal tracks pomodoros completed against a target for one day.
type DailyGoal struct {
	Date      string
	Target    int
	Completed int
}

// Met reports whether the day's target was reached.
func (g DailyGoal) Met() bool {
	return g.Target > 0 && g.Completed >= g.Target
}

// DayKey formats t as a daily goal date in t's location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// UserStats is the statistics snapshot handed to achievement evaluation.
type UserStats struct {
	TotalPomodoros    int `json:"total_pomodoros" yaml:"total_pomodoros"`
	TodayPomodoros    int `json:"today_pomodoros" yaml:"today_pomodoros"`
	TodayFocusMinutes int `json:"today_focus_minutes" yaml:"today_focus_minutes"`
	DailyGoal         int `json:"daily_goal" yaml:"daily_goal"`
	CurrentStreak     int `json:"current_streak" yaml:"current_streak"`
	LongestStreak     int `json:"longest_streak" yaml:"longest_streak"`
	TotalFocusMinutes int `json:"total_focus_minutes" yaml:"total_focus_minutes"`
	TasksCompleted    int `json:"tasks_completed" yaml:"tasks_completed"`
	PerfectDays       int `json:"perfect_days" yaml:"perfect_days"`
}

// GoalProgress returns today's fraction of the daily goal, capped at 1.
func (s UserStats) GoalProgress() float64 {
	if s.DailyGoal <= 0 {
		return 0
	}
	p := float64(s.TodayPomodoros) / float64(s.DailyGoal)
	if p > 1 {
		return 1
	}
	return p
}

// CurrentStreak counts consecutive days, ending today, whose goal was met.
// Today not being met yet does not break the streak.
func CurrentStreak(goals []DailyGoal, today time.Time) int {
	met := make(map[string]bool, len(goals))
	for _, g := range goals {
		if g.Met() {
			met[g.Date] = true
		}
	}

	streak := 0
	for i := 0; i < maxStreakDays; i++ {
		key := DayKey(today.AddDate(0, 0, -i))
		if met[key] {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive met days.
func LongestStreak(goals []DailyGoal) int {
	var days []time.Time
	for _, g := range goals {
		if !g.Met() {
			continue
		}
		d, err := time.Parse(DateLayout, g.Date)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		switch {
		case days[i].Equal(days[i-1]):
			continue
		case days[i].Equal(days[i-1].AddDate(0, 0, 1)):
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// PerfectDays counts the days whose goal was met.
func PerfectDays(goals []DailyGoal) int {
	n := 0
	for _, g := range goals {
		if g.Met() {
			n++
		}
	}
	return n
}
