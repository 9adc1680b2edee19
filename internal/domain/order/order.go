package order

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
)

// Order is a billed, time-boxed entitlement backing one or more proxies.
type Order struct {
	id          uint
	sid         string
	userID      uint
	planID      uint
	status      Status
	totalAmount decimal.Decimal
	quantity    int
	startAt     time.Time
	expiresAt   time.Time
	autoRenew   bool
	metadata    map[string]interface{}
	createdAt   time.Time
	updatedAt   time.Time
}

// ReconstructOrder rebuilds an order from persistence
func ReconstructOrder(
	id uint,
	sid string,
	userID, planID uint,
	status Status,
	totalAmount decimal.Decimal,
	quantity int,
	startAt, expiresAt time.Time,
	autoRenew bool,
	metadata map[string]interface{},
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if id == 0 {
		return nil, fmt.Errorf("order ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}
	if !expiresAt.After(startAt) {
		return nil, ErrInvalidWindow
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Order{
		id:          id,
		sid:         sid,
		userID:      userID,
		planID:      planID,
		status:      status,
		totalAmount: totalAmount,
		quantity:    quantity,
		startAt:     startAt,
		expiresAt:   expiresAt,
		autoRenew:   autoRenew,
		metadata:    metadata,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (o *Order) ID() uint                         { return o.id }
func (o *Order) SID() string                      { return o.sid }
func (o *Order) UserID() uint                     { return o.userID }
func (o *Order) PlanID() uint                     { return o.planID }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) TotalAmount() decimal.Decimal     { return o.totalAmount }
func (o *Order) Quantity() int                    { return o.quantity }
func (o *Order) StartAt() time.Time               { return o.startAt }
func (o *Order) ExpiresAt() time.Time             { return o.expiresAt }
func (o *Order) AutoRenew() bool                  { return o.autoRenew }
func (o *Order) Metadata() map[string]interface{} { return o.metadata }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }

// SetID is called by the repository after insert.
func (o *Order) SetID(id uint) error {
	if o.id != 0 {
		return fmt.Errorf("order ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("order ID cannot be zero")
	}
	o.id = id
	return nil
}

func (o *Order) IsActive() bool {
	return o.status == StatusActive
}

// DurationDays is the entitlement window rounded up to whole days.
func (o *Order) DurationDays() int {
	return int(math.Ceil(o.expiresAt.Sub(o.startAt).Hours() / 24))
}

// ExpiresWithin reports whether expires_at falls in (now, now+window].
func (o *Order) ExpiresWithin(now time.Time, window time.Duration) bool {
	return o.expiresAt.After(now) && !o.expiresAt.After(now.Add(window))
}

// NotificationSentAt returns the last expiry warning timestamp, if any.
func (o *Order) NotificationSentAt() (time.Time, bool) {
	switch v := o.metadata[constants.MetaExpiryNotificationSentAt].(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case time.Time:
		return v, true
	default:
		return time.Time{}, false
	}
}

// NotifiedWithin reports whether an expiry warning was sent less than
// window before now.
func (o *Order) NotifiedWithin(now time.Time, window time.Duration) bool {
	sentAt, ok := o.NotificationSentAt()
	if !ok {
		return false
	}
	return now.Sub(sentAt) < window
}

func (o *Order) RecordNotificationSent(at time.Time) {
	o.metadata[constants.MetaExpiryNotificationSentAt] = at.UTC().Format(time.RFC3339Nano)
	o.updatedAt = at
}

// MarkAsExpired moves an active order to expired. Already expired orders
// are left untouched.
func (o *Order) MarkAsExpired(now time.Time) error {
	if o.status == StatusExpired {
		return nil
	}
	if !o.status.CanTransitionTo(StatusExpired) {
		return ErrInvalidTransition(o.status, StatusExpired)
	}

	o.status = StatusExpired
	o.updatedAt = now
	return nil
}

// Renew builds the successor order. The new window starts where this one
// ends and keeps this order's own length in days, not the plan's nominal
// duration. The receiver is not modified.
func (o *Order) Renew(sid string, now time.Time) (*Order, error) {
	if o.status != StatusActive {
		return nil, fmt.Errorf("%w: status %s", ErrNotRenewable, o.status)
	}
	days := o.DurationDays()
	if days <= 0 {
		return nil, fmt.Errorf("%w: empty window", ErrNotRenewable)
	}

	startAt := o.expiresAt
	expiresAt := startAt.AddDate(0, 0, days)

	return &Order{
		sid:         sid,
		userID:      o.userID,
		planID:      o.planID,
		status:      StatusActive,
		totalAmount: o.totalAmount,
		quantity:    o.quantity,
		startAt:     startAt,
		expiresAt:   expiresAt,
		autoRenew:   o.autoRenew,
		metadata: map[string]interface{}{
			constants.MetaAutoRenewed:     true,
			constants.MetaOriginalOrderID: o.id,
		},
		createdAt: now,
		updatedAt: now,
	}, nil
}
