// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// TaskService handles task-related use cases.
type TaskService struct {
	storage ports.Storage
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title    string
	Color    string
	Estimate int
}

// AddTask creates a new task.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.Title)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	if err := task.SetColor(req.Color); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	task.SetEstimate(req.Estimate)

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Status   *domain.TaskStatus
	OnlyOpen bool
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx, req.Status)
	if err != nil {
		return nil, err
	}
	if !req.OnlyOpen {
		return tasks, nil
	}

	open := tasks[:0]
	for _, task := range tasks {
		if !task.IsCompleted() {
			open = append(open, task)
		}
	}
	return open, nil
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// FindTask resolves a task by exact ID or, failing that, by the best fuzzy
// title match among open tasks.
func (s *TaskService) FindTask(ctx context.Context, query string) (*domain.Task, error) {
	if query == "" {
		return nil, domain.ErrInvalidTaskID
	}

	task, err := s.storage.Tasks().FindByID(ctx, query)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, domain.ErrTaskNotFound) {
		return nil, err
	}

	matches, err := s.storage.Tasks().FindByTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrTaskNotFound, query)
	}
	return matches[0], nil
}

// TaskTitle returns the title for a task reference, or "" when unknown.
func (s *TaskService) TaskTitle(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	task, err := s.storage.Tasks().FindByID(ctx, ref)
	if err != nil {
		return ""
	}
	return task.Title
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Complete()
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. Its session history is kept.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.storage.Tasks().Delete(ctx, id)
}
