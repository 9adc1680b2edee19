package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxyshop/internal/application/renewal/usecases"
	"github.com/orris-inc/proxyshop/internal/shared/errors"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
	"github.com/orris-inc/proxyshop/internal/shared/utils"
)

type AutoRenewHandler struct {
	runner  autoRenewRunner
	reports runReportReader
	logger  logger.Interface
}

// NewAutoRenewHandler builds the handler. reports may be nil when Redis is
// disabled.
func NewAutoRenewHandler(runner autoRenewRunner, reports runReportReader, logger logger.Interface) *AutoRenewHandler {
	return &AutoRenewHandler{
		runner:  runner,
		reports: reports,
		logger:  logger,
	}
}

// RunAutoRenew handles GET|POST /cron/auto-renew.
func (h *AutoRenewHandler) RunAutoRenew(c *gin.Context) {
	// the run outlives a dropped scheduler connection
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.runner.Execute(ctx, usecases.RunOptions{})
	if err != nil {
		h.logger.Errorw("auto-renew run failed", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to process auto-renewals", err.Error())
		return
	}

	c.JSON(http.StatusOK, report)
}

// LastReport handles GET /cron/auto-renew/last.
func (h *AutoRenewHandler) LastReport(c *gin.Context) {
	if h.reports == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("run reports are not stored"))
		return
	}

	report, err := h.reports.Last(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to read last run report", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if report == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("no auto-renew run recorded"))
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AutoRenewHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
