// Package domain contains the core business entities for tomato.
// These entities are independent of storage, timing and presentation.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrInvalidTaskID      = errors.New("invalid task ID")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidSessionType = errors.New("invalid session type")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
	ErrPresetNotFound     = errors.New("preset not found")
	ErrPresetExists       = errors.New("preset already exists")
	ErrBuiltInPreset      = errors.New("built-in presets cannot be modified")
)

// DefaultTaskColor is used when a task is created without a color.
const DefaultTaskColor = "#8B5CF6"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates a status name. "in-progress" is accepted.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "_") {
	case "pending":
		return StatusPending, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
}

// Task is something the user focuses on during work sessions.
type Task struct {
	ID                 string
	Title              string
	Color              string
	EstimatedPomodoros *int
	CompletedPomodoros int
	Status             TaskStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CompletedAt        *time.Time
}

// NewTask creates a new task with the given title.
func NewTask(title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTaskTitle
	}

	now := time.Now()
	return &Task{
		ID:        generateID(),
		Title:     title,
		Color:     DefaultTaskColor,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetColor changes the task color. An empty color restores the default.
func (t *Task) SetColor(color string) error {
	if color == "" {
		color = DefaultTaskColor
	}
	if !hexColor.MatchString(color) {
		return ErrInvalidColor
	}
	t.Color = color
	t.UpdatedAt = time.Now()
	return nil
}

// SetEstimate records how many pomodoros the task is expected to take.
// Zero or negative clears the estimate.
func (t *Task) SetEstimate(n int) {
	if n <= 0 {
		t.EstimatedPomodoros = nil
	} else {
		t.EstimatedPomodoros = &n
	}
	t.UpdatedAt = time.Now()
}

// RecordPomodoro counts one finished work session against the task.
func (t *Task) RecordPomodoro() {
	t.CompletedPomodoros++
	if t.Status == StatusPending {
		t.Status = StatusInProgress
	}
	t.UpdatedAt = time.Now()
}

// Complete marks the task as completed.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// IsCompleted returns true once the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Progress returns "3/5" style progress, or just the count without an estimate.
func (t *Task) Progress() string {
	if t.EstimatedPomodoros == nil {
		return strconv.Itoa(t.CompletedPomodoros)
	}
	return strconv.Itoa(t.CompletedPomodoros) + "/" + strconv.Itoa(*t.EstimatedPomodoros)
}
