package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

type RunOptions struct {
	SkipNotifications bool
}

// AutoRenewUseCase runs one reconciliation: the notification pass, then
// the renewal pass. Runs are sequential; overlapping triggers are not
// serialized here.
type AutoRenewUseCase struct {
	notify     *NotifyExpiringOrdersUseCase
	renew      *RenewExpiredProxiesUseCase
	reports    RunReportStore
	runTimeout time.Duration
	now        Clock
	logger     logger.Interface
}

func NewAutoRenewUseCase(
	notify *NotifyExpiringOrdersUseCase,
	renew *RenewExpiredProxiesUseCase,
	reports RunReportStore,
	runTimeout time.Duration,
	now Clock,
	logger logger.Interface,
) *AutoRenewUseCase {
	return &AutoRenewUseCase{
		notify:     notify,
		renew:      renew,
		reports:    reports,
		runTimeout: runTimeout,
		now:        now,
		logger:     logger,
	}
}

func (uc *AutoRenewUseCase) Execute(ctx context.Context, opts RunOptions) (*dto.RunReport, error) {
	if uc.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.runTimeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log := uc.logger.With("run_id", runID)
	now := uc.now()
	started := time.Now()

	log.Infow("auto-renew run started", "now", now, "skip_notifications", opts.SkipNotifications)

	report := &dto.RunReport{
		RunID:         runID,
		Notifications: dto.NotificationSummary{Results: make([]dto.NotificationResult, 0)},
		Timestamp:     now,
	}

	if !opts.SkipNotifications {
		notifications, err := uc.notify.Execute(ctx, now)
		if err != nil {
			log.Errorw("notification pass failed", "error", err)
			report.Notifications.Error = err.Error()
		} else {
			report.Notifications = *notifications
		}
	}

	renewals, err := uc.renew.Execute(ctx, now)
	if err != nil {
		log.Errorw("renewal pass failed", "error", err, "duration", time.Since(started))
		return nil, fmt.Errorf("renewal pass: %w", err)
	}
	report.Renewals = *renewals
	report.Success = true

	if uc.reports != nil {
		if err := uc.reports.Save(ctx, report); err != nil {
			log.Warnw("failed to store run report", "error", err)
		}
	}

	log.Infow("auto-renew run finished",
		"notifications_sent", report.Notifications.Sent,
		"renewed", report.Renewals.Renewed,
		"deactivated", report.Renewals.Deactivated,
		"quota_updated", report.Renewals.QuotaUpdated,
		"duration", time.Since(started),
	)
	return report, nil
}

// Run adapts Execute to the scheduler's job signature and returns the
// number of proxies touched.
func (uc *AutoRenewUseCase) Run(ctx context.Context) (int, error) {
	report, err := uc.Execute(ctx, RunOptions{})
	if err != nil {
		return 0, err
	}
	return report.Renewals.Renewed + report.Renewals.Deactivated, nil
}
