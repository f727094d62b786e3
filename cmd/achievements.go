package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/ports"
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"badges"},
	Short:   "List achievements and your progress toward them",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := app.state.Achievements(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get achievements: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]any, 0, len(statuses))
			for _, s := range statuses {
				item := map[string]any{
					"id":          s.ID,
					"name":        s.Name,
					"description": s.Description,
					"unlocked":    s.Unlocked,
					"progress":    s.Progress,
				}
				if s.Unlocked {
					item["unlocked_at"] = s.UnlockedAt
				}
				list = append(list, item)
			}
			return printJSON(out, map[string]any{"achievements": list})
		}
		return renderMarkdown(out, achievementsMarkdown(statuses))
	},
}

func achievementsMarkdown(statuses []ports.AchievementStatus) string {
	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 🏆 Achievements (%d/%d)\n\n", unlocked, len(statuses))
	for _, s := range statuses {
		if s.Unlocked {
			fmt.Fprintf(&b, "- %s **%s**: %s (unlocked %s)\n", s.Icon, s.Name, s.Description, s.UnlockedAt)
			continue
		}
		fmt.Fprintf(&b, "- 🔒 %s: %s `%s` %d%%\n", s.Name, s.Description, goalBar(s.Progress, 10), int(s.Progress*100))
	}
	return b.String()
}
