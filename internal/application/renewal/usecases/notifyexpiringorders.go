package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/proxyshop/internal/application/notification"
	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/domain/order"
	"github.com/orris-inc/proxyshop/internal/domain/plan"
	"github.com/orris-inc/proxyshop/internal/domain/profile"
	"github.com/orris-inc/proxyshop/internal/domain/proxy"
	"github.com/orris-inc/proxyshop/internal/domain/wallet"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// NotifyWindows configures the pre-expiry warning pass.
type NotifyWindows struct {
	// Lookahead selects orders expiring in (now, now+Lookahead].
	Lookahead time.Duration
	// Dedup suppresses a second warning for the same order.
	Dedup time.Duration
}

// NotifyExpiringOrdersUseCase warns users whose active orders are about
// to lapse without a successful renewal.
type NotifyExpiringOrdersUseCase struct {
	orderRepo   order.Repository
	proxyRepo   proxy.Repository
	profileRepo profile.Repository
	planRepo    plan.Repository
	ledger      wallet.Ledger
	notifier    ExpiryNotifier
	windows     NotifyWindows
	timeouts    Timeouts
	logger      logger.Interface
}

func NewNotifyExpiringOrdersUseCase(
	orderRepo order.Repository,
	proxyRepo proxy.Repository,
	profileRepo profile.Repository,
	planRepo plan.Repository,
	ledger wallet.Ledger,
	notifier ExpiryNotifier,
	windows NotifyWindows,
	timeouts Timeouts,
	logger logger.Interface,
) *NotifyExpiringOrdersUseCase {
	return &NotifyExpiringOrdersUseCase{
		orderRepo:   orderRepo,
		proxyRepo:   proxyRepo,
		profileRepo: profileRepo,
		planRepo:    planRepo,
		ledger:      ledger,
		notifier:    notifier,
		windows:     windows,
		timeouts:    timeouts,
		logger:      logger,
	}
}

func (uc *NotifyExpiringOrdersUseCase) Execute(ctx context.Context, now time.Time) (*dto.NotificationSummary, error) {
	candidates, err := uc.orderRepo.FindActiveExpiringBetween(ctx, now, now.Add(uc.windows.Lookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to find expiring orders: %w", err)
	}

	summary := &dto.NotificationSummary{
		Checked: len(candidates),
		Results: make([]dto.NotificationResult, 0),
	}

	for _, o := range candidates {
		result, attempted := uc.processOrder(ctx, now, o)
		if !attempted {
			continue
		}
		if result.Sent {
			summary.Sent++
		}
		summary.Results = append(summary.Results, result)
	}

	uc.logger.Infow("expiry notification pass finished",
		"checked", summary.Checked,
		"sent", summary.Sent,
	)
	return summary, nil
}

// processOrder returns attempted=false for orders skipped before any
// dispatch decision was made.
func (uc *NotifyExpiringOrdersUseCase) processOrder(ctx context.Context, now time.Time, o *order.Order) (dto.NotificationResult, bool) {
	result := dto.NotificationResult{OrderID: o.ID(), OrderSID: o.SID()}

	if o.DurationDays() <= 1 {
		return result, false
	}
	if o.NotifiedWithin(now, uc.windows.Dedup) {
		uc.logger.Debugw("expiry notification already sent recently", "order_id", o.ID())
		return result, false
	}

	p, err := uc.profileRepo.GetByUserID(ctx, o.UserID())
	if err != nil {
		result.Error = fmt.Sprintf("failed to load profile: %v", err)
		return result, true
	}
	if p == nil {
		uc.logger.Warnw("no profile for order owner, skipping notification",
			"order_id", o.ID(),
			"user_id", o.UserID(),
		)
		return result, false
	}

	reason, err := uc.reasonFor(ctx, o)
	if err != nil {
		result.Error = err.Error()
		return result, true
	}
	if reason == "" {
		return result, false
	}
	result.Reason = string(reason)

	pl, err := uc.planRepo.GetByID(ctx, o.PlanID())
	if err != nil {
		uc.logger.Warnw("failed to load plan for notification", "order_id", o.ID(), "plan_id", o.PlanID(), "error", err)
		pl = nil
	}

	callCtx, cancel := uc.timeouts.withCall(ctx)
	delivered, err := uc.notifier.Send(callCtx, notification.ExpiryNotice{
		Profile:   p,
		Order:     o,
		Plan:      pl,
		ExpiresAt: o.ExpiresAt(),
		Amount:    o.TotalAmount(),
		Reason:    reason,
	})
	cancel()
	if err != nil {
		uc.logger.Warnw("failed to send expiry notification", "order_id", o.ID(), "reason", reason, "error", err)
		result.Error = err.Error()
		return result, true
	}

	result.Sent = delivered
	if !delivered {
		return result, true
	}

	o.RecordNotificationSent(now)
	if err := uc.orderRepo.Update(ctx, o); err != nil {
		uc.logger.Errorw("notification sent but timestamp not recorded", "order_id", o.ID(), "error", err)
		result.Error = fmt.Sprintf("failed to record notification time: %v", err)
	}

	uc.logger.Infow("expiry notification sent", "order_id", o.ID(), "reason", reason)
	return result, true
}

// reasonFor returns an empty reason when the order will renew on its own.
// Renewal needs the order flag and every active proxy flag set.
func (uc *NotifyExpiringOrdersUseCase) reasonFor(ctx context.Context, o *order.Order) (notification.Reason, error) {
	if !o.AutoRenew() {
		return notification.ReasonAutoRenewDisabled, nil
	}

	proxies, err := uc.proxyRepo.FindActiveByOrderID(ctx, o.ID())
	if err != nil {
		return "", fmt.Errorf("failed to load order proxies: %w", err)
	}
	if !autoRenewEligible(o, proxies) {
		return notification.ReasonAutoRenewDisabled, nil
	}

	callCtx, cancel := uc.timeouts.withCall(ctx)
	defer cancel()

	balance, err := uc.ledger.GetBalance(callCtx, o.UserID())
	if err != nil {
		return "", fmt.Errorf("failed to read wallet balance: %w", err)
	}
	if balance.LessThan(o.TotalAmount()) {
		return notification.ReasonInsufficientFunds, nil
	}
	return "", nil
}
