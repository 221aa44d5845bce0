package dto

import "github.com/noah-isme/facility-ops-api/internal/models"

// ApproveContentRequest carries the optional reviewer comment.
type ApproveContentRequest struct {
	Type    models.ContentType `json:"type" validate:"required,contenttype"`
	Comment string             `json:"comment"`
}

// RejectContentRequest requires a non-empty reason before the gateway is
// ever called.
type RejectContentRequest struct {
	Type   models.ContentType `json:"type" validate:"required,contenttype"`
	Reason string             `json:"reason" validate:"required,notblank"`
}

// DecisionResponse echoes the applied transition.
type DecisionResponse struct {
	ContentID string                `json:"content_id"`
	Type      models.ContentType    `json:"type"`
	Status    models.ApprovalStatus `json:"status"`
	DecidedBy string                `json:"decided_by"`
	DecidedAt string                `json:"decided_at"`
}

// PendingQuery filters the pending list.
type PendingQuery struct {
	Type models.ContentType `form:"type"`
}
