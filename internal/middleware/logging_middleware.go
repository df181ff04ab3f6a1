package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
	"github.com/reviewboost/reviewboost-backend/pkg/util"
)

const LoggerKey = "logger"

// RequestLogger attaches a request-scoped logger and logs completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = util.GenerateRequestID()
		}
		c.Header("X-Request-ID", requestID)

		log := logger.Get().WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(LoggerKey, log)

		c.Next()

		fields := map[string]interface{}{
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("Request failed", nil, fields)
		case c.Writer.Status() >= 400:
			log.Warn("Request rejected", fields)
		default:
			log.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext returns the request-scoped logger, falling back to the
// global logger when middleware did not run (tests, standalone handlers).
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if l, exists := c.Get(LoggerKey); exists {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Get()
}
