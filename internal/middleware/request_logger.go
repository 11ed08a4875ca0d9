package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/logging"
)

// RequestLogger tags each request with an ID and logs it once it completes.
// An inbound X-Request-ID is kept so calls can be traced across services.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()

		entry := logging.Logger.WithFields(logrus.Fields{
			constants.ContextKeyRequestID: requestID,
			"method":                      c.Request.Method,
			"path":                        c.Request.URL.Path,
			"status":                      c.Writer.Status(),
			"latency_ms":                  time.Since(start).Milliseconds(),
			"client_ip":                   c.ClientIP(),
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// GetRequestID retrieves the current request ID from context
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
