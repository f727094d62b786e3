package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your focus statistics",
	Long:  `Display today's progress toward the daily goal, streaks and lifetime totals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := app.stats.Snapshot(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, stats)
		}
		return renderMarkdown(out, statsMarkdown(stats))
	},
}

// statsMarkdown renders the dashboard as a markdown document.
func statsMarkdown(s domain.UserStats) string {
	var b strings.Builder

	b.WriteString("# 🍅 Focus stats\n\n")
	fmt.Fprintf(&b, "**Today:** %d/%d pomodoros `%s` %s focused\n\n",
		s.TodayPomodoros, s.DailyGoal, goalBar(s.GoalProgress(), 10), formatMinutes(s.TodayFocusMinutes))

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Current streak | %s |\n", days(s.CurrentStreak))
	fmt.Fprintf(&b, "| Longest streak | %s |\n", days(s.LongestStreak))
	fmt.Fprintf(&b, "| Total pomodoros | %d |\n", s.TotalPomodoros)
	fmt.Fprintf(&b, "| Total focus | %s |\n", formatMinutes(s.TotalFocusMinutes))
	fmt.Fprintf(&b, "| Tasks completed | %d |\n", s.TasksCompleted)
	fmt.Fprintf(&b, "| Perfect days | %d |\n", s.PerfectDays)

	if s.TodayPomodoros >= s.DailyGoal && s.DailyGoal > 0 {
		b.WriteString("\n⭐ Daily goal reached!\n")
	}
	return b.String()
}

func goalBar(progress float64, width int) string {
	filled := int(progress*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
