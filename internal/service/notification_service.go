package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/facility-ops-api/internal/models"
	"github.com/noah-isme/facility-ops-api/pkg/config"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
	"github.com/noah-isme/facility-ops-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// NotificationService delivers author-facing decision notifications through a
// background queue and serves the notification feed. Decision delivery is
// best-effort: an enqueue failure is logged, never returned to the decision
// path.
type NotificationService struct {
	store  notificationStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service and its dispatch queue.
func NewNotificationService(store notificationStore, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{store: store, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start begins background dispatch.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the dispatch workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyDecision enqueues the author notification for a decision.
func (s *NotificationService) NotifyDecision(item models.ContentApproval, status models.ApprovalStatus, actorName, reason string) {
	notification := buildDecisionNotification(item, status, actorName, reason)
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(notification.Type),
		Payload: notification,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue decision notification",
			zap.String("content_id", item.ID),
			zap.String("author_id", item.AuthorID),
			zap.Error(err))
	}
}

// ListForUser returns the user's notification feed.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	notifications, err := s.store.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notifications")
	}
	return notifications, nil
}

// MarkRead stamps a notification as read for the owning user.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.store.MarkRead(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	notification, ok := job.Payload.(*models.Notification)
	if !ok {
		s.logger.Error("dropping notification job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.store.Create(ctx, notification)
}

func buildDecisionNotification(item models.ContentApproval, status models.ApprovalStatus, actorName, reason string) *models.Notification {
	contentType := item.Type
	notification := &models.Notification{
		UserID:      item.AuthorID,
		ContentID:   &item.ID,
		ContentType: &contentType,
	}
	if actorName == "" {
		actorName = "a reviewer"
	}
	switch status {
	case models.ApprovalStatusApproved:
		notification.Type = models.NotificationContentApproved
		notification.Title = fmt.Sprintf("%q was approved", item.Title)
		notification.Body = fmt.Sprintf("Your %s %q was approved and published by %s.", item.Type, item.Title, actorName)
	default:
		notification.Type = models.NotificationContentRejected
		notification.Title = fmt.Sprintf("%q was rejected", item.Title)
		notification.Body = fmt.Sprintf("Your %s %q was rejected by %s. Reason: %s", item.Type, item.Title, actorName, reason)
	}
	return notification
}
