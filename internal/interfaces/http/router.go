package http

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxyshop/internal/interfaces/http/handlers"
	"github.com/orris-inc/proxyshop/internal/interfaces/http/middleware"
	"github.com/orris-inc/proxyshop/internal/interfaces/http/routes"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine           *gin.Engine
	autoRenewHandler *handlers.AutoRenewHandler
	cronSecret       string
	rateLimiter      *middleware.RateLimiter
	logger           logger.Interface
}

// NewRouter wires the gin engine. rateLimiter may be nil.
func NewRouter(
	autoRenewHandler *handlers.AutoRenewHandler,
	cronSecret string,
	rateLimiter *middleware.RateLimiter,
	log logger.Interface,
) *Router {
	return &Router{
		engine:           gin.New(),
		autoRenewHandler: autoRenewHandler,
		cronSecret:       cronSecret,
		rateLimiter:      rateLimiter,
		logger:           log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.CustomLogger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	r.engine.GET("/health", r.autoRenewHandler.HealthCheck)

	cronCfg := &routes.CronRouteConfig{
		Handler: r.autoRenewHandler,
		Auth:    middleware.CronAuth(r.cronSecret, r.logger),
	}
	if r.rateLimiter != nil {
		cronCfg.RateLimit = r.rateLimiter.Limit()
	}
	routes.SetupCronRoutes(r.engine, cronCfg)
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
