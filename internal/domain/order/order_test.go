package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
)

var d0 = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T, status Status, startAt, expiresAt time.Time, metadata map[string]interface{}) *Order {
	t.Helper()
	o, err := ReconstructOrder(1, "ord_test", 7, 3, status, decimal.RequireFromString("10.00"), 1,
		startAt, expiresAt, true, metadata, startAt, startAt)
	require.NoError(t, err)
	return o
}

func TestReconstructOrder_Validation(t *testing.T) {
	_, err := ReconstructOrder(0, "", 1, 1, StatusActive, decimal.Zero, 1, d0, d0.Add(time.Hour), false, nil, d0, d0)
	assert.Error(t, err)

	_, err = ReconstructOrder(1, "", 1, 1, Status("weird"), decimal.Zero, 1, d0, d0.Add(time.Hour), false, nil, d0, d0)
	assert.Error(t, err)

	_, err = ReconstructOrder(1, "", 1, 1, StatusActive, decimal.Zero, 1, d0, d0, false, nil, d0, d0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestOrder_DurationDays(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   int
	}{
		{"exactly one day", 24 * time.Hour, 1},
		{"just over one day rounds up", 25 * time.Hour, 2},
		{"half a day rounds up", 12 * time.Hour, 1},
		{"seven days", 7 * 24 * time.Hour, 7},
		{"thirty days", 30 * 24 * time.Hour, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(t, StatusActive, d0, d0.Add(tt.window), nil)
			assert.Equal(t, tt.want, o.DurationDays())
		})
	}
}

func TestOrder_ExpiresWithin(t *testing.T) {
	window := 72 * time.Hour
	now := d0

	assert.False(t, newTestOrder(t, StatusActive, now.Add(-10*24*time.Hour), now, nil).ExpiresWithin(now, window), "now itself is excluded")
	assert.True(t, newTestOrder(t, StatusActive, now.Add(-10*24*time.Hour), now.Add(time.Minute), nil).ExpiresWithin(now, window))
	assert.True(t, newTestOrder(t, StatusActive, now.Add(-10*24*time.Hour), now.Add(window), nil).ExpiresWithin(now, window), "upper bound is inclusive")
	assert.False(t, newTestOrder(t, StatusActive, now.Add(-10*24*time.Hour), now.Add(window+time.Second), nil).ExpiresWithin(now, window))
}

func TestOrder_NotificationDedup(t *testing.T) {
	o := newTestOrder(t, StatusActive, d0, d0.Add(30*24*time.Hour), nil)

	_, ok := o.NotificationSentAt()
	assert.False(t, ok)
	assert.False(t, o.NotifiedWithin(d0, 24*time.Hour))

	o.RecordNotificationSent(d0)

	sentAt, ok := o.NotificationSentAt()
	require.True(t, ok)
	assert.True(t, sentAt.Equal(d0))
	assert.True(t, o.NotifiedWithin(d0.Add(23*time.Hour), 24*time.Hour))
	assert.False(t, o.NotifiedWithin(d0.Add(24*time.Hour), 24*time.Hour))
}

func TestOrder_NotificationSentAt_IgnoresGarbage(t *testing.T) {
	o := newTestOrder(t, StatusActive, d0, d0.Add(48*time.Hour), map[string]interface{}{
		constants.MetaExpiryNotificationSentAt: "not-a-time",
	})

	_, ok := o.NotificationSentAt()
	assert.False(t, ok)
}

func TestOrder_MarkAsExpired(t *testing.T) {
	o := newTestOrder(t, StatusActive, d0, d0.Add(48*time.Hour), nil)
	require.NoError(t, o.MarkAsExpired(d0))
	assert.Equal(t, StatusExpired, o.Status())

	require.NoError(t, o.MarkAsExpired(d0), "expiring twice is a no-op")

	cancelled := newTestOrder(t, StatusCancelled, d0, d0.Add(48*time.Hour), nil)
	assert.ErrorIs(t, cancelled.MarkAsExpired(d0), ErrInvalidStatusTransition)
}

func TestOrder_Renew_PreservesWindowLength(t *testing.T) {
	o := newTestOrder(t, StatusActive, d0, d0.Add(7*24*time.Hour), nil)

	next, err := o.Renew("ord_next", d0.Add(8*24*time.Hour))
	require.NoError(t, err)

	assert.True(t, next.StartAt().Equal(d0.Add(7*24*time.Hour)))
	assert.True(t, next.ExpiresAt().Equal(d0.Add(14*24*time.Hour)))
	assert.Equal(t, StatusActive, next.Status())
	assert.Equal(t, o.UserID(), next.UserID())
	assert.Equal(t, o.PlanID(), next.PlanID())
	assert.Equal(t, o.Quantity(), next.Quantity())
	assert.True(t, o.TotalAmount().Equal(next.TotalAmount()))
	assert.Equal(t, true, next.Metadata()[constants.MetaAutoRenewed])
	assert.Equal(t, uint(1), next.Metadata()[constants.MetaOriginalOrderID])
	assert.Equal(t, uint(0), next.ID())

	assert.Equal(t, StatusActive, o.Status(), "receiver is untouched")
}

func TestOrder_Renew_RejectsInactive(t *testing.T) {
	o := newTestOrder(t, StatusExpired, d0, d0.Add(7*24*time.Hour), nil)

	_, err := o.Renew("ord_next", d0)
	assert.ErrorIs(t, err, ErrNotRenewable)
}

func TestOrder_SetID(t *testing.T) {
	o := newTestOrder(t, StatusActive, d0, d0.Add(time.Hour), nil)
	next, err := o.Renew("ord_x", d0)
	require.NoError(t, err)

	assert.Error(t, next.SetID(0))
	require.NoError(t, next.SetID(42))
	assert.Error(t, next.SetID(43))
	assert.Equal(t, uint(42), next.ID())
}
