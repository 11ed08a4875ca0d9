package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/logging"
	"github.com/yukikurage/task-analytics-api/internal/services"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidReference = "INVALID_REFERENCE"
	ErrCodeConflict         = "CONFLICT"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InvalidReference sends a 400 response for IDs or names that do not resolve
func InvalidReference(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidReference, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// FromService maps a service error onto a response. Domain errors carry
// their own message; anything else is logged and hidden behind a generic 500.
func FromService(c *gin.Context, err error) {
	switch {
	case services.IsInvalidInput(err):
		BadRequest(c, err.Error())
	case services.IsNotFound(err):
		NotFound(c, err.Error())
	case services.IsInvalidReference(err):
		InvalidReference(c, err.Error())
	case services.IsConflict(err):
		Conflict(c, err.Error())
	default:
		logging.Logger.WithFields(logrus.Fields{
			constants.ContextKeyRequestID: c.GetString(constants.ContextKeyRequestID),
			"method":                      c.Request.Method,
			"path":                        c.FullPath(),
		}).WithError(err).Error("request failed")
		InternalError(c, "")
	}
}
