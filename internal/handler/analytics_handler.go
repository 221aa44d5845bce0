package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
	"github.com/noah-isme/facility-ops-api/pkg/response"
)

type analyticsService interface {
	Overview(ctx context.Context, facilityID string, windowDays int) (*models.ApprovalOverview, error)
	SystemMetrics() models.AnalyticsSystemMetrics
}

// AnalyticsHandler exposes approval analytics endpoints.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Overview godoc
// @Summary Approval workflow dashboard aggregate
// @Tags Analytics
// @Produce json
// @Param window query int false "Trailing window in days" default(30)
// @Success 200 {object} response.Envelope
// @Router /analytics/approvals [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "analytics service not configured"))
		return
	}
	windowDays := 30
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "window must be between 1 and 365 days"))
			return
		}
		windowDays = parsed
	}
	overview, err := h.service.Overview(c.Request.Context(), facilityFromContext(c), windowDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// System godoc
// @Summary In-process health snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "analytics service not configured"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.SystemMetrics(), nil)
}
