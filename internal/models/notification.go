package models

import "time"

// NotificationType enumerates author-facing notification kinds.
type NotificationType string

const (
	NotificationContentApproved NotificationType = "CONTENT_APPROVED"
	NotificationContentRejected NotificationType = "CONTENT_REJECTED"
)

// Notification is a persisted message for a user's feed.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	Type        NotificationType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Body        string           `db:"body" json:"body"`
	ContentID   *string          `db:"content_id" json:"content_id,omitempty"`
	ContentType *ContentType     `db:"content_type" json:"content_type,omitempty"`
	ReadAt      *time.Time       `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
