package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxyshop/internal/interfaces/http/handlers"
)

// CronRouteConfig holds dependencies for cron routes.
type CronRouteConfig struct {
	Handler   *handlers.AutoRenewHandler
	Auth      gin.HandlerFunc
	RateLimit gin.HandlerFunc // optional
}

// SetupCronRoutes configures the scheduler-facing endpoints.
func SetupCronRoutes(engine *gin.Engine, cfg *CronRouteConfig) {
	cron := engine.Group("/cron")
	if cfg.RateLimit != nil {
		cron.Use(cfg.RateLimit)
	}
	cron.Use(cfg.Auth)
	{
		cron.GET("/auto-renew", cfg.Handler.RunAutoRenew)
		cron.POST("/auto-renew", cfg.Handler.RunAutoRenew)
		cron.GET("/auto-renew/last", cfg.Handler.LastReport)
	}
}
