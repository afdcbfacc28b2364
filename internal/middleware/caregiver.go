package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderCaregiverID  = "X-Caregiver-ID"
	ContextCaregiverID = "caregiver_id"
)

// CaregiverContext resolves the calling caregiver from the
// X-Caregiver-ID header and stores their ID on the request context.
// Requests without a valid caregiver ID are rejected.
func CaregiverContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderCaregiverID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + HeaderCaregiverID + " header",
			})
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid caregiver ID",
			})
			return
		}

		c.Set(ContextCaregiverID, id)
		c.Next()
	}
}

// CaregiverID returns the caregiver ID set by CaregiverContext.
func CaregiverID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextCaregiverID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
