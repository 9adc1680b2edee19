package proxy

import (
	"context"
	"time"
)

type Repository interface {
	// GetByID returns nil, nil when the proxy does not exist.
	GetByID(ctx context.Context, id uint) (*Proxy, error)
	Update(ctx context.Context, proxy *Proxy) error

	// FindActiveExpiredBefore returns active proxies with expires_at < now,
	// ordered by order_id then id.
	FindActiveExpiredBefore(ctx context.Context, now time.Time) ([]*Proxy, error)

	// FindActiveByOrderID returns the order's active proxies ordered by id.
	FindActiveByOrderID(ctx context.Context, orderID uint) ([]*Proxy, error)
}
