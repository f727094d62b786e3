// Package cmd provides the CLI commands for the Tomato application.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/adapters/tui"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/logging"
	"github.com/xvierd/tomato/internal/services"
	"github.com/xvierd/tomato/internal/timer"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	configPath string
	jsonOutput bool

	taskFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tomato",
	Short: "Tomato - a pomodoro timer for the terminal",
	Long: `Tomato is a pomodoro timer with task tracking, daily goals and
achievements.

Run "tomato" with no arguments to open the timer. Space starts and pauses,
r resets, s skips to the next session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTimer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.tomato/tomato.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.tomato/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.Flags().StringVarP(&taskFlag, "task", "t", "", "Task to focus on, by id or fuzzy title")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Tomato\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runTimer opens the full-screen timer.
func runTimer(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()
	ctx = logging.WithCommand(ctx, "timer")

	live, err := startTimer(ctx, timer.NewTickerClock(time.Second), taskFlag)
	if err != nil {
		return err
	}
	defer live.stop()

	model := tui.NewModel(tui.Options{
		Timer: live.timer,
		ListTasks: func() ([]*domain.Task, error) {
			return app.tasks.ListTasks(ctx, services.ListTasksRequest{OnlyOpen: true})
		},
		AddTask: func(title string) (*domain.Task, error) {
			return app.tasks.AddTask(ctx, services.AddTaskRequest{Title: title})
		},
		TaskTitle: func(ref string) string {
			return app.tasks.TaskTitle(ctx, ref)
		},
		ListPresets: app.presets.List,
		ApplyPreset: app.presets.Apply,
		DailyProgress: func() (int, int) {
			return dailyProgress(ctx)
		},
		Toasts: live.toasts,
	})

	if err := tui.Run(ctx, model); err != nil {
		return err
	}

	// Remember the selected task for the next run.
	if ref := live.timer.State().TaskRef; ref != app.config.Config().Timer.Task {
		if err := app.config.Set("timer.task", ref); err != nil {
			app.logger.Warn("failed to remember task", "error", err)
		}
	}
	return nil
}

// formatMinutes formats minutes as a human-friendly string like "25m" or "1h30m".
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
