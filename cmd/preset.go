package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/domain"
)

var (
	presetWork       int
	presetShortBreak int
	presetLongBreak  int
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage timer presets",
	Long: `List, apply, save and delete timer presets. Built-in presets are
classic (25/5/15), extended (50/10/30) and sprint (90/20/45).`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := app.presets.List()
		if err != nil {
			return fmt.Errorf("failed to list presets: %w", err)
		}
		current := app.config.Current()
		active, _ := domain.MatchPreset(presets, current)

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]any, 0, len(presets))
			for _, p := range presets {
				list = append(list, map[string]any{
					"name":        p.Name,
					"label":       p.Label,
					"work":        p.Config.Work,
					"short_break": p.Config.ShortBreak,
					"long_break":  p.Config.LongBreak,
					"built_in":    p.BuiltIn,
					"active":      p.Name == active.Name,
				})
			}
			return printJSON(out, map[string]any{"presets": list, "current": current.String()})
		}

		fmt.Fprintf(out, "⏱  Presets (current %s):\n\n", current)
		for _, p := range presets {
			marker := " "
			if p.Name == active.Name {
				marker = "*"
			}
			kind := "custom"
			if p.BuiltIn {
				kind = "built-in"
			}
			fmt.Fprintf(out, "%s %-12s %-10s %s\n", marker, p.Name, p.Config, kind)
		}
		return nil
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply [name]",
	Short: "Apply a preset",
	Long:  `Write a preset's durations to the config file. A running timer picks them up at the next session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.presets.Apply(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Applied %s (%s)\n", p.Label, p.Config)
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Save a custom preset",
	Long: `Save a custom preset. Durations not given on the command line are
taken from the current config.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config.Current()
		if presetWork > 0 {
			cfg.Work = presetWork
		}
		if presetShortBreak > 0 {
			cfg.ShortBreak = presetShortBreak
		}
		if presetLongBreak > 0 {
			cfg.LongBreak = presetLongBreak
		}

		p, err := app.presets.Save(strings.Join(args, " "), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Saved preset %s (%s) as %q\n", p.Label, p.Config, p.Name)
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a custom preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.presets.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted preset %s\n", args[0])
		return nil
	},
}

func init() {
	presetSaveCmd.Flags().IntVarP(&presetWork, "work", "w", 0, "Work minutes (1-120)")
	presetSaveCmd.Flags().IntVarP(&presetShortBreak, "short", "s", 0, "Short break minutes (1-60)")
	presetSaveCmd.Flags().IntVarP(&presetLongBreak, "long", "l", 0, "Long break minutes (1-60)")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetApplyCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetDeleteCmd)
}
