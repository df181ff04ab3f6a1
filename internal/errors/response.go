package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope.
// Every failure carries success=false plus a machine-readable errorType.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error"`     // user-facing message
	ErrorType string      `json:"errorType"` // code constant (see codes.go)
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError writes the standard error envelope
func RespondWithError(c *gin.Context, statusCode int, errorType string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: errorType,
	})
}

// RespondWithErrorDetails writes the error envelope with contextual fields
// (used by the conflict resolver to carry resolution choices to the caller)
func RespondWithErrorDetails(c *gin.Context, statusCode int, errorType string, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: errorType,
		Details:   details,
	})
}

// Shortcuts for the common cases

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Please sign in to continue"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to do that"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorType string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorType, message)
}

func NotFound(c *gin.Context, errorType string, message string) {
	RespondWithError(c, http.StatusNotFound, errorType, message)
}

func Conflict(c *gin.Context, errorType string, message string) {
	RespondWithError(c, http.StatusConflict, errorType, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong, please try again"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
