// Package quota models the platform-wide count of proxy connections that
// can still be provisioned. There is a single row.
package quota

import (
	"context"
	"errors"
)

var ErrNegativeQuota = errors.New("quota cannot go below zero")

type Quota struct {
	ID                        uint
	AvailableConnectionNumber int64
}

type Repository interface {
	// Get returns nil, nil when the row has not been created yet.
	Get(ctx context.Context) (*Quota, error)
	Create(ctx context.Context, value int64) (*Quota, error)
	Set(ctx context.Context, id uint, value int64) error
	// Increment adds delta in a single statement. It returns
	// ErrNegativeQuota instead of taking the counter below zero.
	Increment(ctx context.Context, id uint, delta int64) error
}
