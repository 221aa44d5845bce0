package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facility-ops-api/internal/models"
	"github.com/noah-isme/facility-ops-api/internal/service"
	"github.com/noah-isme/facility-ops-api/pkg/response"
)

// ContextFacilityKey is the gin context key storing the resolved facility ID.
const ContextFacilityKey = "currentFacility"

// Facility attaches the effective facility ID to the request context. A
// facility pinned to the caller's account wins over the deployment default.
func Facility(facilitySvc *service.FacilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claimsValue, ok := c.Get(ContextUserKey); ok {
			claims := claimsValue.(*models.JWTClaims)
			if claims.FacilityID != nil && *claims.FacilityID != "" {
				c.Set(ContextFacilityKey, *claims.FacilityID)
				c.Next()
				return
			}
		}

		snapshot, err := facilitySvc.Resolve(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextFacilityKey, snapshot.Facility.ID)
		c.Next()
	}
}
