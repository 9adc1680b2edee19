package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/proxyshop/internal/application/notification"
	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/infrastructure/provisioning"
)

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UpstreamRevoker removes every provider-side access of a connection.
type UpstreamRevoker interface {
	RevokeConnection(ctx context.Context, connectionID string) ([]provisioning.AccessOutcome, error)
}

type ExpiryNotifier interface {
	Send(ctx context.Context, notice notification.ExpiryNotice) (bool, error)
}

// RunReportStore keeps the most recent run report. Optional.
type RunReportStore interface {
	Save(ctx context.Context, report *dto.RunReport) error
}

// Clock returns the current time in UTC.
type Clock func() time.Time

// Timeouts bound external calls made while reconciling.
type Timeouts struct {
	Call time.Duration
}

func (t Timeouts) withCall(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.Call <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.Call)
}
