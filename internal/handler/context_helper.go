package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facility-ops-api/internal/middleware"
	"github.com/noah-isme/facility-ops-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func facilityFromContext(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextFacilityKey)
	if !exists {
		return ""
	}
	facilityID, ok := value.(string)
	if !ok {
		return ""
	}
	return facilityID
}
