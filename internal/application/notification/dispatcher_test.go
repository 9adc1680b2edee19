package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxyshop/internal/domain/order"
	"github.com/orris-inc/proxyshop/internal/domain/plan"
	"github.com/orris-inc/proxyshop/internal/domain/profile"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
	"github.com/orris-inc/proxyshop/internal/shared/services/markdown"
)

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendEmail(ctx context.Context, to, subject, htmlBody, plainBody string) error {
	args := m.Called(ctx, to, subject, htmlBody, plainBody)
	return args.Error(0)
}

type mockTelegramSender struct {
	mock.Mock
}

func (m *mockTelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	o, err := order.ReconstructOrder(7, "ord_abc", 3, 2, order.StatusActive,
		decimal.RequireFromString("10.00"), 1, start, start.AddDate(0, 0, 30), true, nil, start, start)
	require.NoError(t, err)
	return o
}

func fullProfile() *profile.Profile {
	return &profile.Profile{
		UserID:            3,
		DisplayName:       "Dana <admin>",
		Email:             "dana@example.com",
		TelegramChatID:    99,
		NotifyEmail:       true,
		NotifyTelegram:    true,
		ProxyExpiryAlerts: true,
	}
}

func newNotice(t *testing.T, p *profile.Profile, reason Reason) ExpiryNotice {
	o := testOrder(t)
	return ExpiryNotice{
		Profile:   p,
		Order:     o,
		Plan:      &plan.Plan{ID: 2, Name: "Starter", ProxyType: "mobile"},
		ExpiresAt: o.ExpiresAt(),
		Amount:    o.TotalAmount(),
		Reason:    reason,
	}
}

func TestDispatcher_Send_BothChannels(t *testing.T) {
	emailSender := new(mockEmailSender)
	tgSender := new(mockTelegramSender)

	emailSender.On("SendEmail", mock.Anything, "dana@example.com", "Your proxy renewal needs a wallet top-up",
		mock.MatchedBy(func(html string) bool {
			return assert.Contains(t, html, "<table>") &&
				assert.Contains(t, html, "Starter (Mobile proxy)") &&
				assert.NotContains(t, html, "<admin>")
		}),
		mock.MatchedBy(func(plain string) bool { return assert.Contains(t, plain, "10.00") }),
	).Return(nil)
	tgSender.On("SendMessage", mock.Anything, int64(99), mock.MatchedBy(func(text string) bool {
		return assert.Contains(t, text, "<b>Your balance is too low to auto-renew</b>")
	})).Return(nil)

	d := NewDispatcher(emailSender, tgSender, markdown.NewRenderer(), logger.NewNop())

	delivered, err := d.Send(context.Background(), newNotice(t, fullProfile(), ReasonInsufficientFunds))

	require.NoError(t, err)
	assert.True(t, delivered)
	emailSender.AssertExpectations(t)
	tgSender.AssertExpectations(t)
}

func TestDispatcher_Send_RespectsPreferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *profile.Profile)
	}{
		{"alerts disabled", func(p *profile.Profile) { p.ProxyExpiryAlerts = false }},
		{"both channels off", func(p *profile.Profile) { p.NotifyEmail = false; p.NotifyTelegram = false }},
		{"no contact details", func(p *profile.Profile) { p.Email = ""; p.TelegramChatID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emailSender := new(mockEmailSender)
			tgSender := new(mockTelegramSender)
			d := NewDispatcher(emailSender, tgSender, markdown.NewRenderer(), logger.NewNop())

			p := fullProfile()
			tt.mutate(p)

			delivered, err := d.Send(context.Background(), newNotice(t, p, ReasonAutoRenewDisabled))

			require.NoError(t, err)
			assert.False(t, delivered)
			emailSender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			tgSender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDispatcher_Send_EmailOnly(t *testing.T) {
	emailSender := new(mockEmailSender)
	emailSender.On("SendEmail", mock.Anything, "dana@example.com", "Your proxy expires soon",
		mock.Anything, mock.Anything).Return(nil)

	d := NewDispatcher(emailSender, nil, markdown.NewRenderer(), logger.NewNop())

	delivered, err := d.Send(context.Background(), newNotice(t, fullProfile(), ReasonAutoRenewDisabled))

	require.NoError(t, err)
	assert.True(t, delivered)
	emailSender.AssertExpectations(t)
}

func TestDispatcher_Send_OneChannelFails(t *testing.T) {
	emailSender := new(mockEmailSender)
	tgSender := new(mockTelegramSender)
	emailSender.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))
	tgSender.On("SendMessage", mock.Anything, int64(99), mock.Anything).Return(nil)

	d := NewDispatcher(emailSender, tgSender, markdown.NewRenderer(), logger.NewNop())

	delivered, err := d.Send(context.Background(), newNotice(t, fullProfile(), ReasonAutoRenewDisabled))

	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestDispatcher_Send_AllChannelsFail(t *testing.T) {
	emailSender := new(mockEmailSender)
	tgSender := new(mockTelegramSender)
	emailSender.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))
	tgSender.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("blocked"))

	d := NewDispatcher(emailSender, tgSender, markdown.NewRenderer(), logger.NewNop())

	delivered, err := d.Send(context.Background(), newNotice(t, fullProfile(), ReasonAutoRenewDisabled))

	require.Error(t, err)
	assert.False(t, delivered)
	assert.ErrorContains(t, err, "smtp down")
	assert.ErrorContains(t, err, "blocked")
}

func TestDispatcher_Send_RejectsUnknownReason(t *testing.T) {
	d := NewDispatcher(nil, nil, markdown.NewRenderer(), logger.NewNop())

	_, err := d.Send(context.Background(), newNotice(t, fullProfile(), Reason("other")))

	assert.Error(t, err)
}
