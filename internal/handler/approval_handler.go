package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facility-ops-api/internal/dto"
	"github.com/noah-isme/facility-ops-api/internal/models"
	"github.com/noah-isme/facility-ops-api/internal/service"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
	"github.com/noah-isme/facility-ops-api/pkg/response"
)

type approvalService interface {
	ListPending(ctx context.Context, facilityID string) ([]models.ContentApproval, error)
	Approve(ctx context.Context, contentID string, req dto.ApproveContentRequest, actor *models.JWTClaims) (*models.ContentDecision, error)
	Reject(ctx context.Context, contentID string, req dto.RejectContentRequest, actor *models.JWTClaims) (*models.ContentDecision, error)
}

type exportService interface {
	PendingQueue(ctx context.Context, facilityID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ApprovalHandler exposes the content approval REST endpoints.
type ApprovalHandler struct {
	service approvalService
	exports exportService
}

// NewApprovalHandler constructs the handler.
func NewApprovalHandler(service approvalService, exports exportService) *ApprovalHandler {
	return &ApprovalHandler{service: service, exports: exports}
}

// List godoc
// @Summary List content pending approval
// @Tags Approvals
// @Produce json
// @Param type query string false "Filter by content type"
// @Success 200 {object} response.Envelope
// @Router /approvals/pending [get]
func (h *ApprovalHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "approval service not configured"))
		return
	}
	facilityID := facilityFromContext(c)
	items, err := h.service.ListPending(c.Request.Context(), facilityID)
	if err != nil {
		respondApproval(c, err)
		return
	}

	if rawType := strings.TrimSpace(c.Query("type")); rawType != "" {
		wanted := models.ContentType(rawType)
		if !wanted.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown content type"))
			return
		}
		filtered := make([]models.ContentApproval, 0, len(items))
		for _, item := range items {
			if item.Type == wanted {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Approve godoc
// @Summary Approve a pending content item
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param payload body dto.ApproveContentRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Router /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "approval service not configured"))
		return
	}
	var req dto.ApproveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid approve payload"))
		return
	}
	decision, err := h.service.Approve(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		respondApproval(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decisionResponse(decision), nil)
}

// Reject godoc
// @Summary Reject a pending content item
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param payload body dto.RejectContentRequest true "Rejection payload"
// @Success 200 {object} response.Envelope
// @Router /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "approval service not configured"))
		return
	}
	var req dto.RejectContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reject payload"))
		return
	}
	decision, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		respondApproval(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decisionResponse(decision), nil)
}

// Export godoc
// @Summary Export the pending queue as CSV or PDF
// @Tags Approvals
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /approvals/pending/export [get]
func (h *ApprovalHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	result, err := h.exports.PendingQueue(c.Request.Context(), facilityFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func respondApproval(c *gin.Context, err error) {
	var approvalErr *appErrors.ApprovalError
	if errors.As(err, &approvalErr) {
		response.ApprovalError(c, approvalErr)
		return
	}
	response.Error(c, err)
}

func decisionResponse(decision *models.ContentDecision) dto.DecisionResponse {
	return dto.DecisionResponse{
		ContentID: decision.ContentID,
		Type:      decision.Type,
		Status:    decision.Status,
		DecidedBy: decision.DecidedBy,
		DecidedAt: decision.DecidedAt.UTC().Format(time.RFC3339),
	}
}
