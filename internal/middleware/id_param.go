package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-analytics-api/internal/constants"
	apierrors "github.com/yukikurage/task-analytics-api/internal/errors"
)

// RequireIDParam parses the :id path parameter and stores it in context.
// Requests with a missing, zero or non-numeric ID are rejected with 400.
func RequireIDParam(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+resource+" ID")
			return
		}

		c.Set(constants.ContextKeyEntityID, id)
		c.Next()
	}
}

// GetEntityID retrieves the ID parsed by RequireIDParam
func GetEntityID(c *gin.Context) (uint64, bool) {
	id, exists := c.Get(constants.ContextKeyEntityID)
	if !exists {
		return 0, false
	}

	v, ok := id.(uint64)
	return v, ok
}
