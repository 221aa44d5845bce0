package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/facility-ops-api/internal/dto"
	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
)

type contentGateway interface {
	ListPending(ctx context.Context, facilityID string) ([]models.ContentApproval, error)
	GetPending(ctx context.Context, contentID string, contentType models.ContentType) (*models.ContentApproval, error)
	GetStatus(ctx context.Context, contentID string, contentType models.ContentType) (models.ApprovalStatus, error)
	Approve(ctx context.Context, contentID string, contentType models.ContentType, approvedBy string) error
	Reject(ctx context.Context, contentID string, contentType models.ContentType, rejectedBy, reason string) error
}

type taskStore interface {
	Complete(ctx context.Context, id, completedBy, outcome string, comment *string) error
}

// DecisionNotifier delivers the author-facing notification for a decision.
// Implementations must never fail the caller; delivery is best-effort.
type DecisionNotifier interface {
	NotifyDecision(item models.ContentApproval, status models.ApprovalStatus, actorName, reason string)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type decisionRecorder interface {
	RecordApprovalDecision(contentType models.ContentType, status models.ApprovalStatus)
}

// ApprovalService orchestrates the content approval workflow: permission
// guard, status-guarded transition, task completion (critical), author
// notification (best-effort), audit and metrics.
type ApprovalService struct {
	gateway   contentGateway
	tasks     taskStore
	notifier  DecisionNotifier
	audit     auditLogger
	metrics   decisionRecorder
	logger    *zap.Logger
	validator *validator.Validate
}

// NewApprovalService constructs the service.
func NewApprovalService(gateway contentGateway, tasks taskStore, notifier DecisionNotifier, audit auditLogger, metrics decisionRecorder, validate *validator.Validate, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	registerApprovalValidations(validate)
	return &ApprovalService{
		gateway:   gateway,
		tasks:     tasks,
		notifier:  notifier,
		audit:     audit,
		metrics:   metrics,
		logger:    logger,
		validator: validate,
	}
}

func registerApprovalValidations(validate *validator.Validate) {
	_ = validate.RegisterValidation("contenttype", func(fl validator.FieldLevel) bool {
		return models.ContentType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ListPending returns the unified pending queue for a facility, newest
// submission first.
func (s *ApprovalService) ListPending(ctx context.Context, facilityID string) ([]models.ContentApproval, error) {
	if facilityID == "" {
		return nil, appErrors.ErrNoFacility
	}
	items, err := s.gateway.ListPending(ctx, facilityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending content")
	}
	return items, nil
}

// Approve applies the pending → approved transition and runs its side
// effects. Task completion failures propagate; notification failures do not.
func (s *ApprovalService) Approve(ctx context.Context, contentID string, req dto.ApproveContentRequest, actor *models.JWTClaims) (*models.ContentDecision, error) {
	if err := s.guardActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approve payload")
	}
	item, err := s.loadPending(ctx, contentID, req.Type, "approve")
	if err != nil {
		return nil, err
	}

	if err := s.gateway.Approve(ctx, contentID, req.Type, actor.UserID); err != nil {
		return nil, s.classifyTransition(err, "approve")
	}

	now := time.Now().UTC()
	decision := &models.ContentDecision{
		ContentID: contentID,
		Type:      req.Type,
		Status:    models.ApprovalStatusApproved,
		DecidedBy: actor.UserID,
		DecidedAt: now,
	}

	if err := s.completeTask(ctx, item, actor.UserID, "approved", optionalComment(req.Comment)); err != nil {
		return nil, err
	}

	s.notify(item, models.ApprovalStatusApproved, actor.FullName, "")
	s.emitAudit(ctx, actor, models.AuditActionContentApprove, item, req.Comment)
	s.record(req.Type, models.ApprovalStatusApproved)

	return decision, nil
}

// Reject applies the pending → rejected transition. The reason is required
// and validated before any gateway call.
func (s *ApprovalService) Reject(ctx context.Context, contentID string, req dto.RejectContentRequest, actor *models.JWTClaims) (*models.ContentDecision, error) {
	if err := s.guardActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rejection reason is required")
	}
	item, err := s.loadPending(ctx, contentID, req.Type, "reject")
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if err := s.gateway.Reject(ctx, contentID, req.Type, actor.UserID, reason); err != nil {
		return nil, s.classifyTransition(err, "reject")
	}

	now := time.Now().UTC()
	decision := &models.ContentDecision{
		ContentID: contentID,
		Type:      req.Type,
		Status:    models.ApprovalStatusRejected,
		DecidedBy: actor.UserID,
		DecidedAt: now,
		Reason:    reason,
	}

	if err := s.completeTask(ctx, item, actor.UserID, "rejected", &reason); err != nil {
		return nil, err
	}

	s.notify(item, models.ApprovalStatusRejected, actor.FullName, reason)
	s.emitAudit(ctx, actor, models.AuditActionContentReject, item, reason)
	s.record(req.Type, models.ApprovalStatusRejected)

	return decision, nil
}

func (s *ApprovalService) guardActor(actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !models.PermissionsForRole(actor.Role).ApproveContent {
		return appErrors.Clone(appErrors.ErrForbidden, "your role cannot approve content")
	}
	return nil
}

// loadPending resolves the item for side effects and enforces the
// "must still be pending" pre-check. The guarded UPDATE remains the real
// correctness mechanism; this check exists to give callers a precise error.
func (s *ApprovalService) loadPending(ctx context.Context, contentID string, contentType models.ContentType, action string) (*models.ContentApproval, error) {
	item, err := s.gateway.GetPending(ctx, contentID, contentType)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.ClassifyApprovalAction(err, action)
	}

	status, statusErr := s.gateway.GetStatus(ctx, contentID, contentType)
	if statusErr != nil {
		if errors.Is(statusErr, sql.ErrNoRows) {
			return nil, appErrors.ClassifyApprovalAction(fmt.Errorf("content %s does not exist", contentID), action)
		}
		return nil, appErrors.ClassifyApprovalAction(statusErr, action)
	}
	return nil, appErrors.ClassifyApprovalAction(
		fmt.Errorf("content already processed (current status: %s)", status), action)
}

func (s *ApprovalService) classifyTransition(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		// the guarded UPDATE matched zero rows: a concurrent reviewer won.
		return appErrors.ClassifyApprovalAction(fmt.Errorf("content already processed concurrently"), action)
	}
	return appErrors.ClassifyApprovalAction(err, action)
}

// completeTask finishes the linked workflow task. This is part of the
// decision's critical path, so failures propagate to the caller.
func (s *ApprovalService) completeTask(ctx context.Context, item *models.ContentApproval, completedBy, outcome string, comment *string) error {
	if item.TaskID == nil || s.tasks == nil {
		return nil
	}
	if err := s.tasks.Complete(ctx, *item.TaskID, completedBy, outcome, comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("linked task already completed", zap.String("task_id", *item.TaskID))
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("content was %s but completing its task failed", outcome))
	}
	return nil
}

func (s *ApprovalService) notify(item *models.ContentApproval, status models.ApprovalStatus, actorName, reason string) {
	if s.notifier == nil || item == nil {
		return
	}
	s.notifier.NotifyDecision(*item, status, actorName, reason)
}

func (s *ApprovalService) emitAudit(ctx context.Context, actor *models.JWTClaims, action string, item *models.ContentApproval, detail string) {
	if s.audit == nil || item == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"title":  item.Title,
		"type":   item.Type,
		"detail": detail,
	})
	log := &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     action,
		Resource:   string(item.Type),
		ResourceID: &item.ID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "approval-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func (s *ApprovalService) record(contentType models.ContentType, status models.ApprovalStatus) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordApprovalDecision(contentType, status)
}

func optionalComment(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
