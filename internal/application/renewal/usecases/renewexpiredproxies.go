package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/domain/order"
	"github.com/orris-inc/proxyshop/internal/domain/proxy"
	"github.com/orris-inc/proxyshop/internal/domain/wallet"
	"github.com/orris-inc/proxyshop/internal/shared/id"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// proxyGroup is every expired proxy backed by one order. Billing and quota
// are settled once per group.
type proxyGroup struct {
	orderID uint
	order   *order.Order
	proxies []*proxy.Proxy
}

func (g *proxyGroup) renewEligible() bool {
	return autoRenewEligible(g.order, g.proxies)
}

// autoRenewEligible is fail-closed: the order flag and every proxy flag
// must agree. Both passes decide renewal with it.
func autoRenewEligible(o *order.Order, proxies []*proxy.Proxy) bool {
	if o == nil || !o.AutoRenew() {
		return false
	}
	for _, p := range proxies {
		if !p.AutoRenew() {
			return false
		}
	}
	return true
}

func (g *proxyGroup) results(action, reason string) []dto.RenewalResult {
	out := make([]dto.RenewalResult, 0, len(g.proxies))
	for _, p := range g.proxies {
		out = append(out, dto.RenewalResult{
			ProxyID: p.ID(),
			OrderID: g.orderID,
			Action:  action,
			Reason:  reason,
		})
	}
	return out
}

// RenewExpiredProxiesUseCase renews or deactivates every order whose
// proxies have lapsed while still active.
type RenewExpiredProxiesUseCase struct {
	proxyRepo   proxy.Repository
	orderRepo   order.Repository
	ledger      wallet.Ledger
	quota       *QuotaUpdater
	deactivator *ProxyDeactivator
	txManager   TransactionRunner
	timeouts    Timeouts
	logger      logger.Interface
}

func NewRenewExpiredProxiesUseCase(
	proxyRepo proxy.Repository,
	orderRepo order.Repository,
	ledger wallet.Ledger,
	quota *QuotaUpdater,
	deactivator *ProxyDeactivator,
	txManager TransactionRunner,
	timeouts Timeouts,
	logger logger.Interface,
) *RenewExpiredProxiesUseCase {
	return &RenewExpiredProxiesUseCase{
		proxyRepo:   proxyRepo,
		orderRepo:   orderRepo,
		ledger:      ledger,
		quota:       quota,
		deactivator: deactivator,
		txManager:   txManager,
		timeouts:    timeouts,
		logger:      logger,
	}
}

// Execute returns an error only when the work list cannot be loaded. Group
// failures are reported in the results.
func (uc *RenewExpiredProxiesUseCase) Execute(ctx context.Context, now time.Time) (*dto.RenewalSummary, error) {
	groups, total, err := uc.loadGroups(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &dto.RenewalSummary{
		Checked: total,
		Results: make([]dto.RenewalResult, 0, total),
	}

	for _, g := range groups {
		results, quotaUpdated := uc.processGroup(ctx, now, g)
		for _, r := range results {
			switch r.Action {
			case dto.ActionRenewed:
				summary.Renewed++
			case dto.ActionDeactivated:
				summary.Deactivated++
			}
		}
		if quotaUpdated {
			summary.QuotaUpdated++
		}
		summary.Results = append(summary.Results, results...)
	}

	uc.logger.Infow("renewal pass finished",
		"checked", summary.Checked,
		"groups", len(groups),
		"renewed", summary.Renewed,
		"deactivated", summary.Deactivated,
		"quota_updated", summary.QuotaUpdated,
	)
	return summary, nil
}

func (uc *RenewExpiredProxiesUseCase) loadGroups(ctx context.Context, now time.Time) ([]*proxyGroup, int, error) {
	proxies, err := uc.proxyRepo.FindActiveExpiredBefore(ctx, now)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find expired proxies: %w", err)
	}
	if len(proxies) == 0 {
		return nil, 0, nil
	}

	var groups []*proxyGroup
	byOrder := make(map[uint]*proxyGroup)
	orderIDs := make([]uint, 0)
	for _, p := range proxies {
		g, ok := byOrder[p.OrderID()]
		if !ok {
			g = &proxyGroup{orderID: p.OrderID()}
			byOrder[p.OrderID()] = g
			groups = append(groups, g)
			orderIDs = append(orderIDs, p.OrderID())
		}
		g.proxies = append(g.proxies, p)
	}

	orders, err := uc.orderRepo.GetByIDs(ctx, orderIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load orders for expired proxies: %w", err)
	}
	for _, g := range groups {
		g.order = orders[g.orderID]
	}

	return groups, len(proxies), nil
}

func (uc *RenewExpiredProxiesUseCase) processGroup(ctx context.Context, now time.Time, g *proxyGroup) ([]dto.RenewalResult, bool) {
	if g.order == nil {
		uc.logger.Errorw("expired proxies reference a missing order", "order_id", g.orderID)
		return uc.failed(g, order.ErrOrderNotFound), false
	}

	if !g.order.IsActive() {
		uc.logger.Warnw("expired proxies still active under a closed order",
			"order_id", g.orderID,
			"order_status", g.order.Status().String(),
		)
		return uc.deactivateGroup(ctx, now, g, func(*proxy.Proxy) string {
			return dto.ReasonOrderNotActive
		})
	}

	if !g.renewEligible() {
		return uc.deactivateGroup(ctx, now, g, func(p *proxy.Proxy) string {
			if !g.order.AutoRenew() || !p.AutoRenew() {
				return dto.ReasonAutoRenewDisabled
			}
			return dto.ReasonPartialAutoRenewNotSupported
		})
	}

	callCtx, cancel := uc.timeouts.withCall(ctx)
	balance, err := uc.ledger.GetBalance(callCtx, g.order.UserID())
	cancel()
	if err != nil {
		return uc.failed(g, fmt.Errorf("failed to read wallet balance: %w", err)), false
	}

	if balance.LessThan(g.order.TotalAmount()) {
		return uc.deactivateGroup(ctx, now, g, func(*proxy.Proxy) string {
			return dto.ReasonInsufficientFunds
		})
	}

	renewed, err := uc.renewGroup(ctx, now, g)
	if err != nil {
		uc.logger.Errorw("failed to renew order", "order_id", g.orderID, "error", err)
		return uc.failed(g, err), false
	}

	results := g.results(dto.ActionRenewed, "")
	for i := range results {
		results[i].NewOrderID = renewed.ID()
	}

	uc.logger.Infow("order auto-renewed",
		"order_id", g.orderID,
		"new_order_id", renewed.ID(),
		"new_expires_at", renewed.ExpiresAt(),
		"proxies", len(g.proxies),
		"amount", g.order.TotalAmount().String(),
	)
	return results, false
}

// renewGroup debits the wallet once, inserts the successor order, expires
// the old one and repoints every proxy in a single transaction.
func (uc *RenewExpiredProxiesUseCase) renewGroup(ctx context.Context, now time.Time, g *proxyGroup) (*order.Order, error) {
	sid, err := id.NewOrderID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	renewed, err := g.order.Renew(sid, now)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := uc.timeouts.withCall(ctx)
	defer cancel()

	err = uc.txManager.RunInTransaction(callCtx, func(txCtx context.Context) error {
		if amount := g.order.TotalAmount(); amount.IsPositive() {
			if err := uc.ledger.Debit(txCtx, g.order.UserID(), amount); err != nil {
				return fmt.Errorf("failed to debit wallet: %w", err)
			}
		}

		if err := uc.orderRepo.Create(txCtx, renewed); err != nil {
			return fmt.Errorf("failed to create renewal order: %w", err)
		}

		if err := g.order.MarkAsExpired(now); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(txCtx, g.order); err != nil {
			return fmt.Errorf("failed to expire order: %w", err)
		}

		for _, p := range g.proxies {
			if err := p.Repoint(renewed.ID(), renewed.ExpiresAt(), now); err != nil {
				return err
			}
			if err := uc.proxyRepo.Update(txCtx, p); err != nil {
				return fmt.Errorf("failed to repoint proxy %d: %w", p.ID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renewed, nil
}

// deactivateGroup revokes upstream accesses, then flips every proxy and
// the order in one transaction, then returns a single quota unit.
func (uc *RenewExpiredProxiesUseCase) deactivateGroup(
	ctx context.Context,
	now time.Time,
	g *proxyGroup,
	reasonFor func(*proxy.Proxy) string,
) ([]dto.RenewalResult, bool) {
	uc.revokeGroup(ctx, g)

	callCtx, cancel := uc.timeouts.withCall(ctx)
	err := uc.txManager.RunInTransaction(callCtx, func(txCtx context.Context) error {
		for _, p := range g.proxies {
			if err := uc.deactivator.MarkInactive(txCtx, p); err != nil {
				return err
			}
		}
		if !g.order.IsActive() {
			return nil
		}
		if err := g.order.MarkAsExpired(now); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(txCtx, g.order); err != nil {
			return fmt.Errorf("failed to expire order: %w", err)
		}
		return nil
	})
	cancel()
	if err != nil {
		uc.logger.Errorw("failed to deactivate order", "order_id", g.orderID, "error", err)
		return uc.failed(g, err), false
	}

	quotaUpdated := uc.quota.Update(ctx, 1)

	results := make([]dto.RenewalResult, 0, len(g.proxies))
	for _, p := range g.proxies {
		results = append(results, dto.RenewalResult{
			ProxyID: p.ID(),
			OrderID: g.orderID,
			Action:  dto.ActionDeactivated,
			Reason:  reasonFor(p),
		})
	}

	uc.logger.Infow("order deactivated",
		"order_id", g.orderID,
		"proxies", len(g.proxies),
		"quota_updated", quotaUpdated,
	)
	return results, quotaUpdated
}

// revokeGroup is best effort. Each proxy already logs its own failures;
// the group totals go to debug.
func (uc *RenewExpiredProxiesUseCase) revokeGroup(ctx context.Context, g *proxyGroup) {
	deleted, failed, unreachable := 0, 0, 0
	for _, p := range g.proxies {
		revocations, err := uc.deactivator.RevokeUpstream(ctx, p)
		if err != nil {
			unreachable++
			continue
		}
		for _, r := range revocations {
			if r.Deleted {
				deleted++
			} else {
				failed++
			}
		}
	}

	uc.logger.Debugw("upstream cleanup finished",
		"order_id", g.orderID,
		"proxies", len(g.proxies),
		"accesses_deleted", deleted,
		"accesses_failed", failed,
		"connections_unreachable", unreachable,
	)
}

func (uc *RenewExpiredProxiesUseCase) failed(g *proxyGroup, err error) []dto.RenewalResult {
	results := g.results(dto.ActionFailed, "")
	for i := range results {
		results[i].Error = err.Error()
	}
	return results
}
