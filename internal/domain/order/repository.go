package order

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	// GetByID returns nil, nil when the order does not exist.
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*Order, error)
	Update(ctx context.Context, order *Order) error

	// FindActiveExpiringBetween returns active orders with from < expires_at <= to.
	FindActiveExpiringBetween(ctx context.Context, from, to time.Time) ([]*Order, error)
}
