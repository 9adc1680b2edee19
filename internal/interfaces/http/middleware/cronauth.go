package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
	"github.com/orris-inc/proxyshop/internal/shared/utils"
)

// CronAuth guards the cron trigger with a shared bearer secret. With an
// empty secret every request is let through.
func CronAuth(secret string, log logger.Interface) gin.HandlerFunc {
	if secret == "" {
		log.Warnw("cron secret not configured, cron endpoints are unauthenticated")
	}

	expected := []byte("Bearer " + secret)

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := strings.TrimSpace(c.GetHeader(constants.HeaderAuthorization))
		if subtle.ConstantTimeCompare([]byte(header), expected) != 1 {
			log.Warnw("rejected cron request",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}
