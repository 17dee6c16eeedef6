package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcairns/taskdeck/internal/domain"
)

// taskRepo implements domain.TaskRepository using SQLite.
type taskRepo struct {
	db *sql.DB
}

func (r *taskRepo) Create(ctx context.Context, task *domain.Task) error {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, completed, created_at, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, task.Title, task.Description, task.Completed, now, task.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	task.ID = id
	task.CreatedAt = now
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task := &domain.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, completed, created_at, user_id
		 FROM tasks WHERE id = ?`, id,
	).Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query task by id: %w", err)
	}
	return task, nil
}

// ListByUser returns the user's tasks ordered by creation time ascending.
// Rows that fail entity validation are logged and skipped so one corrupt
// record cannot take down the whole listing.
func (r *taskRepo) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, completed, created_at, user_id
		 FROM tasks WHERE user_id = ? ORDER BY created_at ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks by user: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UserID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if err := task.Validate(); err != nil {
			slog.Warn("skipping corrupt task record", "id", task.ID, "error", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) Update(ctx context.Context, task *domain.Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ? WHERE id = ?`,
		task.Title, task.Description, task.Completed, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
