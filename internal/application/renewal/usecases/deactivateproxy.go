package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/domain/proxy"
	"github.com/orris-inc/proxyshop/internal/shared/errors"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// ProxyDeactivator tears a proxy down: provider-side accesses first, then
// the local row, then optionally one quota unit back to the pool.
type ProxyDeactivator struct {
	proxyRepo proxy.Repository
	revoker   UpstreamRevoker
	quota     *QuotaUpdater
	timeouts  Timeouts
	now       Clock
	logger    logger.Interface
}

func NewProxyDeactivator(
	proxyRepo proxy.Repository,
	revoker UpstreamRevoker,
	quota *QuotaUpdater,
	timeouts Timeouts,
	now Clock,
	logger logger.Interface,
) *ProxyDeactivator {
	return &ProxyDeactivator{
		proxyRepo: proxyRepo,
		revoker:   revoker,
		quota:     quota,
		timeouts:  timeouts,
		now:       now,
		logger:    logger,
	}
}

// RevokeUpstream is best effort. The returned error only describes why the
// access list could not be read; callers log it and carry on.
func (d *ProxyDeactivator) RevokeUpstream(ctx context.Context, p *proxy.Proxy) ([]dto.UpstreamRevocation, error) {
	if !p.HasUpstreamConnection() || d.revoker == nil {
		return nil, nil
	}

	callCtx, cancel := d.timeouts.withCall(ctx)
	defer cancel()

	outcomes, err := d.revoker.RevokeConnection(callCtx, p.ConnectionID())
	if err != nil {
		d.logger.Warnw("upstream cleanup skipped",
			"proxy_id", p.ID(),
			"connection_id", p.ConnectionID(),
			"error", err,
		)
		return nil, err
	}

	revocations := make([]dto.UpstreamRevocation, 0, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		if !o.Deleted {
			failed++
		}
		revocations = append(revocations, dto.UpstreamRevocation{
			AccessID: o.AccessID,
			Deleted:  o.Deleted,
			Attempts: o.Attempts,
			Error:    o.Error,
		})
	}

	d.logger.Infow("upstream accesses revoked",
		"proxy_id", p.ID(),
		"connection_id", p.ConnectionID(),
		"total", len(outcomes),
		"failed", failed,
	)
	return revocations, nil
}

// MarkInactive flips the local status. Runs inside the caller's
// transaction when ctx carries one.
func (d *ProxyDeactivator) MarkInactive(ctx context.Context, p *proxy.Proxy) error {
	p.Deactivate(d.now())
	if err := d.proxyRepo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to deactivate proxy %d: %w", p.ID(), err)
	}
	return nil
}

// Deactivate runs the full teardown for one proxy. Upstream failures are
// reported but never returned; local status and quota failures are.
func (d *ProxyDeactivator) Deactivate(ctx context.Context, p *proxy.Proxy, updateQuota bool) (*dto.DeactivationReport, error) {
	report := &dto.DeactivationReport{ProxyID: p.ID()}

	revocations, err := d.RevokeUpstream(ctx, p)
	if err != nil {
		report.UpstreamError = err.Error()
	}
	report.Upstream = revocations

	if err := d.MarkInactive(ctx, p); err != nil {
		return report, err
	}

	if !updateQuota {
		return report, nil
	}

	if err := d.quota.Apply(ctx, 1); err != nil {
		return report, err
	}
	report.QuotaReturned = true

	d.logger.Infow("proxy deactivated", "proxy_id", p.ID(), "quota_returned", report.QuotaReturned)
	return report, nil
}

// DeactivateByID loads the proxy and deactivates it.
func (d *ProxyDeactivator) DeactivateByID(ctx context.Context, proxyID uint, updateQuota bool) (*dto.DeactivationReport, error) {
	p, err := d.proxyRepo.GetByID(ctx, proxyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load proxy: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("proxy %d not found", proxyID))
	}
	if p.Status() == proxy.StatusInactive {
		return nil, errors.NewValidationError(fmt.Sprintf("proxy %d is already inactive", proxyID))
	}

	return d.Deactivate(ctx, p, updateQuota)
}
