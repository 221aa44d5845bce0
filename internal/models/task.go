package models

import "time"

// TaskStatus tracks a workflow task lifecycle.
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task is a workflow item linked to a content approval. Completing it is
// part of the decision's critical path.
type Task struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	ContentID   *string    `db:"content_id" json:"content_id,omitempty"`
	AssigneeID  *string    `db:"assignee_id" json:"assignee_id,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	Outcome     *string    `db:"outcome" json:"outcome,omitempty"`
	Comment     *string    `db:"comment" json:"comment,omitempty"`
	CompletedBy *string    `db:"completed_by" json:"completed_by,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
