package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

func CustomLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"body_size", c.Writer.Size(),
		}

		if requestID := c.GetHeader(constants.HeaderXRequestID); requestID != "" {
			args = append(args, "request_id", requestID)
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Errorw("HTTP request completed with server error", args...)
		case status >= 400:
			log.Warnw("HTTP request completed with client error", args...)
		case c.Request.URL.Path == "/health":
			log.Debugw("HTTP request completed successfully", args...)
		default:
			log.Infow("HTTP request completed successfully", args...)
		}
	}
}
