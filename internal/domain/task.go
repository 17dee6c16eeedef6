package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do item owned by exactly one user. CreatedAt and
// UserID are fixed at creation; updates replace the whole value rather
// than mutating in place.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UserID      string
}

// NewTask validates inputs and returns a Task ready for persistence.
// The title and description are stored trimmed; Completed starts false.
func NewTask(title, description, userID string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: task owner is required", ErrInvalidInput)
	}
	return &Task{
		Title:       title,
		Description: strings.TrimSpace(description),
		UserID:      userID,
	}, nil
}

// Validate reports whether a persisted Task record is well-formed. List
// reconstruction uses it to drop corrupt rows instead of failing the scan.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: task id is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if t.UserID == "" {
		return fmt.Errorf("%w: task owner is required", ErrInvalidInput)
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("%w: task created_at is zero", ErrInvalidInput)
	}
	return nil
}

// TaskPatch carries the optional fields of a partial update. Nil fields
// keep their existing values.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Apply builds the updated Task from an existing one, substituting any
// provided fields. ID, CreatedAt, and UserID always carry over unchanged.
func (p TaskPatch) Apply(existing *Task) (*Task, error) {
	updated := *existing
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		updated.Title = title
	}
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		updated.Completed = *p.Completed
	}
	return &updated, nil
}

// TaskRepository defines persistence operations for tasks.
// Create assigns the final ID. ListByUser returns tasks ordered by
// CreatedAt ascending.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
}
