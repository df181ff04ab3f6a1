package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is the parsed form of a persistence error
type ErrorInfo struct {
	Code    string // code constant (see codes.go)
	Message string // user-facing message
}

// ParseDatabaseError converts a raw persistence error into a retry-friendly
// message. Raw detail is never leaked to ordinary users; admin callers can
// request it via the verbose flag.
func ParseDatabaseError(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong, please try again"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: "The requested record was not found"}
	}

	errStr := strings.ToLower(err.Error())

	info := ErrorInfo{
		Code:    InternalDatabaseError,
		Message: "We could not save your changes, please try again",
	}

	switch {
	case strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint"):
		info.Message = "A record with these details already exists"
	case strings.Contains(errStr, "foreign key constraint"):
		info.Message = "This record is referenced by other data and cannot be changed"
	case strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "timeout"):
		info.Code = InternalExternalAPI
		info.Message = "A backing service is unavailable, please try again shortly"
	}

	if verbose {
		info.Message = err.Error()
	}
	return info
}

// ParseAndRespond parses a persistence error and writes the envelope
func ParseAndRespond(c *gin.Context, statusCode int, err error, verbose bool) {
	info := ParseDatabaseError(err, verbose)
	RespondWithError(c, statusCode, info.Code, info.Message)
}
