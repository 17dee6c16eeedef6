package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcairns/taskdeck/internal/domain"
)

// TaskService handles task CRUD with owner-existence and ownership checks.
type TaskService struct {
	tasks domain.TaskRepository
	users domain.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// Create validates the owner exists and persists a new task. The returned
// task carries the store-assigned id, a false completed flag, and the
// creation timestamp.
func (s *TaskService) Create(ctx context.Context, userID, title, description string) (*domain.Task, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	task, err := domain.NewTask(title, description, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Update applies a partial update to a task after existence and ownership
// checks. Fields omitted from the patch keep their existing values; the
// owner and creation timestamp never change.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	existing, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := patch.Apply(existing)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

// Delete removes a task after existence and ownership checks.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListByOwner returns the user's tasks ordered by creation time ascending.
// A user with no tasks gets an empty slice, not an error.
func (s *TaskService) ListByOwner(ctx context.Context, userID string) ([]domain.Task, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// getOwned loads a task and verifies the caller owns it. Existence is
// checked before ownership, so probing an id that never existed yields
// not-found rather than unauthorized.
func (s *TaskService) getOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return task, nil
}
