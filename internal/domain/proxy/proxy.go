package proxy

import (
	"fmt"
	"time"
)

// Proxy is a provisioned egress endpoint. It belongs to exactly one order
// at a time; several proxies (HTTP and SOCKS5 views, or multi-quantity
// orders) may share an order.
type Proxy struct {
	id           uint
	userID       uint
	orderID      uint
	protocol     Protocol
	host         string
	port         int
	username     string
	password     string
	status       Status
	expiresAt    time.Time
	autoRenew    bool
	connectionID string
	createdAt    time.Time
	updatedAt    time.Time
}

// ReconstructProxy rebuilds a proxy from persistence
func ReconstructProxy(
	id, userID, orderID uint,
	protocol Protocol,
	host string,
	port int,
	username, password string,
	status Status,
	expiresAt time.Time,
	autoRenew bool,
	connectionID string,
	createdAt, updatedAt time.Time,
) (*Proxy, error) {
	if id == 0 {
		return nil, fmt.Errorf("proxy ID cannot be zero")
	}
	if orderID == 0 {
		return nil, fmt.Errorf("order ID is required")
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("invalid proxy status: %s", status)
	}

	return &Proxy{
		id:           id,
		userID:       userID,
		orderID:      orderID,
		protocol:     protocol,
		host:         host,
		port:         port,
		username:     username,
		password:     password,
		status:       status,
		expiresAt:    expiresAt,
		autoRenew:    autoRenew,
		connectionID: connectionID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (p *Proxy) ID() uint             { return p.id }
func (p *Proxy) UserID() uint         { return p.userID }
func (p *Proxy) OrderID() uint        { return p.orderID }
func (p *Proxy) Protocol() Protocol   { return p.protocol }
func (p *Proxy) Host() string         { return p.host }
func (p *Proxy) Port() int            { return p.port }
func (p *Proxy) Username() string     { return p.username }
func (p *Proxy) Password() string     { return p.password }
func (p *Proxy) Status() Status       { return p.status }
func (p *Proxy) ExpiresAt() time.Time { return p.expiresAt }
func (p *Proxy) AutoRenew() bool      { return p.autoRenew }
func (p *Proxy) ConnectionID() string { return p.connectionID }
func (p *Proxy) CreatedAt() time.Time { return p.createdAt }
func (p *Proxy) UpdatedAt() time.Time { return p.updatedAt }

// HasUpstreamConnection reports whether the provider holds accesses for
// this proxy that must be revoked on teardown.
func (p *Proxy) HasUpstreamConnection() bool {
	return p.connectionID != ""
}

func (p *Proxy) Deactivate(now time.Time) {
	p.status = StatusInactive
	p.updatedAt = now
}

// Repoint moves the proxy onto a renewed order.
func (p *Proxy) Repoint(orderID uint, expiresAt time.Time, now time.Time) error {
	if orderID == 0 || orderID == p.orderID {
		return fmt.Errorf("%w: order %d", ErrInvalidRepoint, orderID)
	}
	if !expiresAt.After(p.expiresAt) {
		return fmt.Errorf("%w: expiry must move forward", ErrInvalidRepoint)
	}

	p.orderID = orderID
	p.expiresAt = expiresAt
	p.updatedAt = now
	return nil
}
