package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// AccessOutcome reports what happened to one upstream access during a
// revoke.
type AccessOutcome struct {
	AccessID string `json:"access_id"`
	Deleted  bool   `json:"deleted"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

type accessAPI interface {
	ListAccesses(ctx context.Context, connectionID string) ([]Access, error)
	DeleteAccess(ctx context.Context, connectionID, accessID string) error
}

// Gateway revokes every access of a connection, retrying each delete with
// exponential backoff. One failed delete never stops the others.
type Gateway struct {
	api        accessAPI
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     logger.Interface
}

func NewGateway(api accessAPI, maxRetries int, log logger.Interface) *Gateway {
	return &Gateway{
		api:        api,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.Multiplier = 2
			b.RandomizationFactor = 0.2
			return b
		},
		logger: log.With("component", "provisioning.gateway"),
	}
}

// RevokeConnection lists and deletes the connection's accesses. The error
// is non-nil only when the list itself fails; per-access failures are in
// the outcomes.
func (g *Gateway) RevokeConnection(ctx context.Context, connectionID string) ([]AccessOutcome, error) {
	accesses, err := g.api.ListAccesses(ctx, connectionID)
	if err != nil {
		g.logger.Warnw("failed to list upstream accesses",
			"connection_id", connectionID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to list accesses for connection %s: %w", connectionID, err)
	}

	outcomes := make([]AccessOutcome, 0, len(accesses))
	for _, access := range accesses {
		outcome := g.deleteWithRetry(ctx, connectionID, access.ID)
		if !outcome.Deleted {
			g.logger.Warnw("failed to delete upstream access",
				"connection_id", connectionID,
				"access_id", access.ID,
				"attempts", outcome.Attempts,
				"error", outcome.Error,
			)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (g *Gateway) deleteWithRetry(ctx context.Context, connectionID, accessID string) AccessOutcome {
	outcome := AccessOutcome{AccessID: accessID}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		outcome.Attempts++
		err := g.api.DeleteAccess(ctx, connectionID, accessID)
		switch {
		case err == nil, errors.Is(err, ErrAccessNotFound):
			return struct{}{}, nil
		case isPermanent(err):
			return struct{}{}, backoff.Permanent(err)
		default:
			return struct{}{}, err
		}
	},
		backoff.WithBackOff(g.newBackOff()),
		backoff.WithMaxTries(uint(g.maxRetries+1)),
	)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Deleted = true
	return outcome
}

func isPermanent(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Retryable()
	}
	return false
}
