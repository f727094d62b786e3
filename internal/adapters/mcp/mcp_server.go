// Package mcp exposes the timer and task store as MCP (Model Context
// Protocol) tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/timer"
)

const timestampLayout = "2006-01-02T15:04:05"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server *server.MCPServer
	timer  ports.TimerControl
	state  ports.MCPStateProvider
	logger *slog.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(tc ports.TimerControl, state ports.MCPStateProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		timer:  tc,
		state:  state,
		logger: logger,
	}

	s.server = server.NewMCPServer(
		"tomato",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	s.registerTools()
	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool("get_timer_state",
			mcp.WithDescription("Get the timer state: session type, remaining time, running flag and selected task"),
		),
		s.handleGetTimerState,
	)

	s.server.AddTool(
		mcp.NewTool("start_timer",
			mcp.WithDescription("Start or resume the countdown of the current session"),
		),
		s.handleStartTimer,
	)

	s.server.AddTool(
		mcp.NewTool("pause_timer",
			mcp.WithDescription("Pause the countdown, keeping the remaining time"),
		),
		s.handlePauseTimer,
	)

	s.server.AddTool(
		mcp.NewTool("reset_timer",
			mcp.WithDescription("Stop and restore the full duration of the current session"),
		),
		s.handleResetTimer,
	)

	s.server.AddTool(
		mcp.NewTool("skip_session",
			mcp.WithDescription("End the current session early and move to the next one"),
		),
		s.handleSkipSession,
	)

	s.server.AddTool(
		mcp.NewTool("switch_session",
			mcp.WithDescription("Switch to a session type without completing the current one"),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("Session type"),
				mcp.Enum(string(domain.SessionTypeWork), string(domain.SessionTypeShortBreak), string(domain.SessionTypeLongBreak)),
			),
		),
		s.handleSwitchSession,
	)

	s.server.AddTool(
		mcp.NewTool("select_task",
			mcp.WithDescription("Select the task credited with finished pomodoros. An empty value clears the selection"),
			mcp.WithString("task",
				mcp.Description("Task ID or part of its title"),
			),
		),
		s.handleSelectTask,
	)

	s.server.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks, optionally filtered by status"),
			mcp.WithString("status",
				mcp.Description("Filter tasks by status"),
				mcp.Enum(string(domain.StatusPending), string(domain.StatusInProgress), string(domain.StatusCompleted)),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool("create_task",
			mcp.WithDescription("Create a new task"),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("The title of the task"),
			),
			mcp.WithNumber("estimate",
				mcp.Description("Optional number of pomodoros the task should take"),
			),
		),
		s.handleCreateTask,
	)

	s.server.AddTool(
		mcp.NewTool("get_stats",
			mcp.WithDescription("Get focus statistics: totals, today's goal progress and streaks"),
		),
		s.handleGetStats,
	)

	s.server.AddTool(
		mcp.NewTool("list_achievements",
			mcp.WithDescription("List achievements with unlock state and progress"),
		),
		s.handleListAchievements,
	)

	s.server.AddTool(
		mcp.NewTool("list_presets",
			mcp.WithDescription("List built-in and custom duration presets"),
		),
		s.handleListPresets,
	)

	s.server.AddTool(
		mcp.NewTool("apply_preset",
			mcp.WithDescription("Make a preset's durations active. A running session keeps its length until it ends"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Preset name"),
			),
		),
		s.handleApplyPreset,
	)

	s.server.AddTool(
		mcp.NewTool("list_sessions",
			mcp.WithDescription("List recorded sessions from the last days"),
			mcp.WithNumber("days",
				mcp.Description("How many days to include (default: 7)"),
			),
		),
		s.handleListSessions,
	)
}

// Start serves MCP requests over stdio until stdin closes.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("mcp server starting")
	return server.NewStdioServer(s.server).Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(stateData(s.timer.State()))
}

func (s *Server) handleStartTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.timer.Start(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start timer: %v", err)), nil
	}
	return jsonResult(stateData(s.timer.State()))
}

func (s *Server) handlePauseTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.timer.Pause()
	return jsonResult(stateData(s.timer.State()))
}

func (s *Server) handleResetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.timer.Reset()
	return jsonResult(stateData(s.timer.State()))
}

func (s *Server) handleSkipSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.timer.Skip()
	return jsonResult(stateData(s.timer.State()))
}

func (s *Server) handleSwitchSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type is required: " + err.Error()), nil
	}
	st, err := domain.ParseSessionType(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.timer.SwitchSession(st); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to switch session: %v", err)), nil
	}
	return jsonResult(stateData(s.timer.State()))
}

func (s *Server) handleSelectTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("task", "")
	if query == "" {
		s.timer.SelectTask("")
		return jsonResult(stateData(s.timer.State()))
	}

	task, err := s.state.FindTask(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to find task: %v", err)), nil
	}
	s.timer.SelectTask(task.ID)

	result := stateData(s.timer.State())
	result["task"] = taskData(task)
	return jsonResult(result)
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status *domain.TaskStatus
	if raw := request.GetString("status", ""); raw != "" {
		st := domain.TaskStatus(raw)
		status = &st
	}

	tasks, err := s.state.ListTasks(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	list := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, taskData(task))
	}

	result := map[string]any{
		"tasks":       list,
		"total_count": len(list),
	}
	if status != nil {
		result["filter_status"] = string(*status)
	}
	return jsonResult(result)
}

func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}
	estimate := int(request.GetFloat("estimate", 0))

	task, err := s.state.CreateTask(ctx, title, estimate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create task: %v", err)), nil
	}
	return jsonResult(taskData(task))
}

func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.state.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return jsonResult(map[string]any{
		"total_pomodoros":     stats.TotalPomodoros,
		"total_focus_minutes": stats.TotalFocusMinutes,
		"today_pomodoros":     stats.TodayPomodoros,
		"today_focus_minutes": stats.TodayFocusMinutes,
		"daily_goal":          stats.DailyGoal,
		"goal_progress":       stats.GoalProgress(),
		"current_streak":      stats.CurrentStreak,
		"longest_streak":      stats.LongestStreak,
		"tasks_completed":     stats.TasksCompleted,
		"perfect_days":        stats.PerfectDays,
	})
}

func (s *Server) handleListAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses, err := s.state.Achievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	list := make([]map[string]any, 0, len(statuses))
	unlocked := 0
	for _, st := range statuses {
		item := map[string]any{
			"id":          st.ID,
			"name":        st.Name,
			"description": st.Description,
			"icon":        st.Icon,
			"unlocked":    st.Unlocked,
			"progress":    st.Progress,
		}
		if st.Unlocked {
			item["unlocked_at"] = st.UnlockedAt
			unlocked++
		}
		list = append(list, item)
	}
	return jsonResult(map[string]any{
		"achievements":   list,
		"unlocked_count": unlocked,
		"total_count":    len(list),
	})
}

func (s *Server) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	presets, err := s.state.Presets()
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	active := s.timer.State().Config
	list := make([]map[string]any, 0, len(presets))
	for _, p := range presets {
		item := presetData(p)
		item["active"] = p.Config == active
		list = append(list, item)
	}
	return jsonResult(map[string]any{"presets": list})
}

func (s *Server) handleApplyPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required: " + err.Error()), nil
	}
	preset, err := s.state.ApplyPreset(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to apply preset: %v", err)), nil
	}
	return jsonResult(presetData(preset))
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := int(request.GetFloat("days", 7))

	records, err := s.state.RecentSessions(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	list := make([]map[string]any, 0, len(records))
	focus := 0
	for _, r := range records {
		item := map[string]any{
			"id":               r.ID,
			"type":             string(r.Type),
			"duration_minutes": r.DurationMinutes,
			"completed_at":     r.CompletedAt.Format(timestampLayout),
		}
		if r.TaskID != nil {
			item["task_id"] = *r.TaskID
		}
		if r.GitBranch != "" {
			item["git_branch"] = r.GitBranch
		}
		if r.GitCommit != "" {
			item["git_commit"] = r.GitCommit
		}
		if r.Type == domain.SessionTypeWork {
			focus += r.DurationMinutes
		}
		list = append(list, item)
	}
	return jsonResult(map[string]any{
		"sessions":            list,
		"total_sessions":      len(list),
		"total_focus_minutes": focus,
	})
}

func stateData(st timer.State) map[string]any {
	result := map[string]any{
		"session_type":            string(st.SessionType),
		"session_label":           st.SessionType.Label(),
		"remaining_seconds":       st.RemainingSeconds,
		"remaining":               (time.Duration(st.RemainingSeconds) * time.Second).String(),
		"total_seconds":           st.TotalSeconds,
		"progress":                st.Progress(),
		"is_running":              st.IsRunning,
		"completed_work_sessions": st.CompletedWorkSessions,
		"config":                  st.Config.String(),
		"config_pending":          st.ConfigPending,
	}
	if st.TaskRef != "" {
		result["task_id"] = st.TaskRef
	}
	return result
}

func taskData(task *domain.Task) map[string]any {
	result := map[string]any{
		"id":                  task.ID,
		"title":               task.Title,
		"color":               task.Color,
		"status":              string(task.Status),
		"completed_pomodoros": task.CompletedPomodoros,
		"created_at":          task.CreatedAt.Format(timestampLayout),
	}
	if task.EstimatedPomodoros != nil {
		result["estimated_pomodoros"] = *task.EstimatedPomodoros
	}
	if task.CompletedAt != nil {
		result["completed_at"] = task.CompletedAt.Format(timestampLayout)
	}
	return result
}

func presetData(p domain.Preset) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"label":       p.Label,
		"work":        p.Config.Work,
		"short_break": p.Config.ShortBreak,
		"long_break":  p.Config.LongBreak,
		"built_in":    p.BuiltIn,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
