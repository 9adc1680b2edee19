package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/proxyshop/internal/domain/quota"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// QuotaUpdater adjusts the platform-wide connection counter.
type QuotaUpdater struct {
	repo   quota.Repository
	logger logger.Interface
}

func NewQuotaUpdater(repo quota.Repository, logger logger.Interface) *QuotaUpdater {
	return &QuotaUpdater{
		repo:   repo,
		logger: logger,
	}
}

// Apply adds delta to the counter, creating the row with delta when it
// does not exist yet.
func (u *QuotaUpdater) Apply(ctx context.Context, delta int64) error {
	q, err := u.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read quota: %w", err)
	}

	if q == nil {
		if _, err := u.repo.Create(ctx, delta); err != nil {
			return fmt.Errorf("failed to create quota: %w", err)
		}
		return nil
	}

	if err := u.repo.Increment(ctx, q.ID, delta); err != nil {
		return fmt.Errorf("failed to update quota: %w", err)
	}
	return nil
}

// Update is the best-effort form of Apply: failures are logged and
// reported as false.
func (u *QuotaUpdater) Update(ctx context.Context, delta int64) bool {
	if err := u.Apply(ctx, delta); err != nil {
		u.logger.Errorw("quota update failed", "delta", delta, "error", err)
		return false
	}

	u.logger.Debugw("quota updated", "delta", delta)
	return true
}
