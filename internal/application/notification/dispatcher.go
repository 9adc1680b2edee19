// Package notification delivers proxy expiry warnings to users over the
// channels their profile enables.
package notification

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/orris-inc/proxyshop/internal/domain/order"
	"github.com/orris-inc/proxyshop/internal/domain/plan"
	"github.com/orris-inc/proxyshop/internal/domain/profile"
	"github.com/orris-inc/proxyshop/internal/shared/biztime"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
	"github.com/orris-inc/proxyshop/internal/shared/services/markdown"
)

type Reason string

const (
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonAutoRenewDisabled Reason = "auto_renew_disabled"
)

func (r Reason) Valid() bool {
	return r == ReasonInsufficientFunds || r == ReasonAutoRenewDisabled
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody, plainBody string) error
}

type TelegramSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// ExpiryNotice is one warning about an order that is about to lapse.
type ExpiryNotice struct {
	Profile   *profile.Profile
	Order     *order.Order
	Plan      *plan.Plan // optional
	ExpiresAt time.Time
	Amount    decimal.Decimal
	Reason    Reason
}

// Dispatcher sends expiry notices. Either sender may be nil when the
// channel is disabled in config.
type Dispatcher struct {
	email    EmailSender
	telegram TelegramSender
	renderer markdown.Renderer
	logger   logger.Interface
}

func NewDispatcher(
	email EmailSender,
	telegram TelegramSender,
	renderer markdown.Renderer,
	logger logger.Interface,
) *Dispatcher {
	return &Dispatcher{
		email:    email,
		telegram: telegram,
		renderer: renderer,
		logger:   logger.With("component", "notification.dispatcher"),
	}
}

// Send delivers the notice on every channel the profile opted into.
// delivered is true when at least one channel accepted the message. A
// profile without any usable channel yields (false, nil).
func (d *Dispatcher) Send(ctx context.Context, notice ExpiryNotice) (bool, error) {
	if notice.Profile == nil || notice.Order == nil {
		return false, fmt.Errorf("notice requires profile and order")
	}
	if !notice.Reason.Valid() {
		return false, fmt.Errorf("unknown notification reason %q", notice.Reason)
	}

	p := notice.Profile
	wantEmail := p.WantsEmail() && d.email != nil
	wantTelegram := p.WantsTelegram() && d.telegram != nil
	if !wantEmail && !wantTelegram {
		d.logger.Debugw("no notification channel enabled",
			"user_id", p.UserID,
			"order_id", notice.Order.ID(),
		)
		return false, nil
	}

	body := d.compose(notice)
	delivered := false
	var errs []error

	if wantEmail {
		if err := d.sendEmail(ctx, notice, body); err != nil {
			d.logger.Warnw("failed to send expiry email",
				"user_id", p.UserID,
				"order_id", notice.Order.ID(),
				"error", err,
			)
			errs = append(errs, err)
		} else {
			delivered = true
		}
	}

	if wantTelegram {
		if err := d.telegram.SendMessage(ctx, p.TelegramChatID, telegramText(body)); err != nil {
			d.logger.Warnw("failed to send expiry telegram message",
				"user_id", p.UserID,
				"order_id", notice.Order.ID(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("telegram: %w", err))
		} else {
			delivered = true
		}
	}

	if !delivered {
		return false, errors.Join(errs...)
	}
	return true, nil
}

type composed struct {
	subject   string
	headline  string
	action    string
	planLabel string
	expiresAt string
	amount    string
}

func (d *Dispatcher) compose(n ExpiryNotice) composed {
	c := composed{
		planLabel: fmt.Sprintf("Order %s", n.Order.SID()),
		expiresAt: biztime.FormatInBizTimezone(n.ExpiresAt, "2006-01-02 15:04 MST"),
		amount:    n.Amount.StringFixed(2),
	}
	if n.Plan != nil {
		label := n.Plan.Name
		if n.Plan.ProxyType != "" {
			label = fmt.Sprintf("%s (%s proxy)", n.Plan.Name, cases.Title(language.English).String(n.Plan.ProxyType))
		}
		c.planLabel = label
	}

	switch n.Reason {
	case ReasonInsufficientFunds:
		c.subject = "Your proxy renewal needs a wallet top-up"
		c.headline = "Your balance is too low to auto-renew"
		c.action = fmt.Sprintf("Top up at least %s before the expiry date to keep your proxies running.", c.amount)
	case ReasonAutoRenewDisabled:
		c.subject = "Your proxy expires soon"
		c.headline = "Auto-renew is turned off"
		c.action = "Renew manually or enable auto-renew to keep your proxies running."
	}
	return c
}

func (d *Dispatcher) sendEmail(ctx context.Context, n ExpiryNotice, c composed) error {
	name := n.Profile.DisplayName
	if name == "" {
		name = "there"
	}

	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", c.headline)
	fmt.Fprintf(&md, "Hi %s,\n\n", name)
	fmt.Fprintf(&md, "| | |\n|---|---|\n")
	fmt.Fprintf(&md, "| Plan | %s |\n", c.planLabel)
	fmt.Fprintf(&md, "| Expires | %s |\n", c.expiresAt)
	fmt.Fprintf(&md, "| Renewal price | %s |\n\n", c.amount)
	fmt.Fprintf(&md, "%s\n", c.action)

	htmlBody, err := d.renderer.ToHTMLSanitized(md.String())
	if err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	plain := fmt.Sprintf("%s\n\nPlan: %s\nExpires: %s\nRenewal price: %s\n\n%s\n",
		c.headline, c.planLabel, c.expiresAt, c.amount, c.action)

	if err := d.email.SendEmail(ctx, n.Profile.Email, c.subject, htmlBody, plain); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}

func telegramText(c composed) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s\nExpires: %s\nRenewal price: %s\n\n%s",
		html.EscapeString(c.headline),
		html.EscapeString(c.planLabel),
		html.EscapeString(c.expiresAt),
		html.EscapeString(c.amount),
		html.EscapeString(c.action),
	)
}
