package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/services"
)

var (
	taskEstimate   int
	taskColor      string
	taskListStatus string
	taskListAll    bool
	taskClear      bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Add, list, complete, delete and select the tasks pomodoros are counted against.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.AddTask(context.Background(), services.AddTaskRequest{
			Title:    strings.Join(args, " "),
			Color:    taskColor,
			Estimate: taskEstimate,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, taskJSON(task))
		}
		fmt.Fprintf(out, "✅ Task added: %s (ID: %s)\n", task.Title, shortID(task.ID))
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List open tasks, or filter by status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.ListTasksRequest{OnlyOpen: !taskListAll && taskListStatus == ""}
		if taskListStatus != "" {
			status, err := domain.ParseTaskStatus(taskListStatus)
			if err != nil {
				return err
			}
			req.Status = &status
		}

		tasks, err := app.tasks.ListTasks(context.Background(), req)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]any, 0, len(tasks))
			for _, task := range tasks {
				list = append(list, taskJSON(task))
			}
			return printJSON(out, map[string]any{"tasks": list, "count": len(list)})
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		selected := app.config.Config().Timer.Task
		fmt.Fprintf(out, "📋 Tasks (%d):\n\n", len(tasks))
		for _, task := range tasks {
			printTask(out, task, task.ID == selected)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task]",
	Short: "Mark a task as completed",
	Long:  `Mark a task as completed. The task is matched by id or fuzzy title.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		task, err := app.tasks.FindTask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		task, err = app.tasks.CompleteTask(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		if app.config.Config().Timer.Task == task.ID {
			if err := app.config.Set("timer.task", ""); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, taskJSON(task))
		}
		fmt.Fprintf(out, "✅ Completed: %s (%s pomodoros)\n", task.Title, task.Progress())
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task]",
	Short: "Delete a task",
	Long:  `Delete a task. Its recorded sessions are kept in the history.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		task, err := app.tasks.FindTask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := app.tasks.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if app.config.Config().Timer.Task == task.ID {
			if err := app.config.Set("timer.task", ""); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted: %s\n", task.Title)
		return nil
	},
}

var taskSelectCmd = &cobra.Command{
	Use:   "select [task]",
	Short: "Select the task the timer counts against",
	Long: `Select the task the timer opens with. The task is matched by id or
fuzzy title, so "tomato task select refpar" finds "Refactor parser".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if taskClear {
			if err := app.config.Set("timer.task", ""); err != nil {
				return err
			}
			fmt.Fprintln(out, "Task selection cleared.")
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("select needs a task id or title (or --clear)")
		}

		task, err := app.tasks.FindTask(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := app.config.Set("timer.task", task.ID); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(out, taskJSON(task))
		}
		fmt.Fprintf(out, "🎯 Selected: %s\n", task.Title)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().IntVarP(&taskEstimate, "estimate", "e", 0, "Estimated pomodoros")
	taskAddCmd.Flags().StringVarP(&taskColor, "color", "c", "", "Display colour as #RRGGBB")
	taskListCmd.Flags().StringVarP(&taskListStatus, "status", "s", "", "Filter by status (pending, in_progress, completed)")
	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "List all tasks (default: open only)")
	taskSelectCmd.Flags().BoolVar(&taskClear, "clear", false, "Clear the selection")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskSelectCmd)
}

func printTask(w io.Writer, task *domain.Task, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}
	fmt.Fprintf(w, "%s %s %s  🍅 %s  (ID: %s)\n", marker, getStatusIcon(task.Status), task.Title, task.Progress(), shortID(task.ID))
}

func taskJSON(task *domain.Task) map[string]any {
	data := map[string]any{
		"id":                  task.ID,
		"title":               task.Title,
		"color":               task.Color,
		"status":              string(task.Status),
		"completed_pomodoros": task.CompletedPomodoros,
		"created_at":          task.CreatedAt.Format("2006-01-02T15:04:05"),
	}
	if task.EstimatedPomodoros != nil {
		data["estimated_pomodoros"] = *task.EstimatedPomodoros
	}
	return data
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusInProgress:
		return "▶️"
	case domain.StatusCompleted:
		return "✅"
	default:
		return "❓"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
