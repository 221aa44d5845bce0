package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
	"github.com/noah-isme/facility-ops-api/pkg/response"
)

type facilityService interface {
	Resolve(ctx context.Context) (*models.FacilitySnapshot, error)
	Refresh(ctx context.Context) (*models.FacilitySnapshot, error)
}

// FacilityHandler exposes the facility context endpoints.
type FacilityHandler struct {
	service facilityService
}

// NewFacilityHandler constructs the handler.
func NewFacilityHandler(service facilityService) *FacilityHandler {
	return &FacilityHandler{service: service}
}

// Current godoc
// @Summary Current facility snapshot
// @Tags Facility
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /facility/current [get]
func (h *FacilityHandler) Current(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "facility service not configured"))
		return
	}
	snapshot, err := h.service.Resolve(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Refresh godoc
// @Summary Force facility re-resolution
// @Tags Facility
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /facility/refresh [post]
func (h *FacilityHandler) Refresh(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "facility service not configured"))
		return
	}
	snapshot, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
