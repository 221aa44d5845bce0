package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/facility-ops-api/internal/models"
)

// TaskRepository persists workflow tasks tied to content approvals.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetByID fetches a task by identifier.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	const query = `SELECT id, title, content_id, assignee_id, status, outcome, comment, completed_by, completed_at, created_at
	FROM tasks WHERE id = $1`
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, err
	}
	return &task, nil
}

// Complete marks an open task completed with the decision outcome. The
// status guard keeps a finished task from being completed twice; zero rows
// affected is reported as sql.ErrNoRows.
func (r *TaskRepository) Complete(ctx context.Context, id, completedBy, outcome string, comment *string) error {
	const query = `UPDATE tasks
	SET status = $1, outcome = $2, comment = $3, completed_by = $4, completed_at = $5
	WHERE id = $6 AND status <> $1`

	result, err := r.db.ExecContext(ctx, query,
		models.TaskStatusCompleted, outcome, comment, completedBy, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check task update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
