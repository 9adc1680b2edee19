package dto

import "time"

// Renewal pass actions, recorded once per proxy.
const (
	ActionRenewed     = "renewed"
	ActionDeactivated = "deactivated"
	ActionFailed      = "failed"
)

// Reasons attached to deactivations and notifications.
const (
	ReasonInsufficientFunds            = "insufficient_funds"
	ReasonAutoRenewDisabled            = "auto_renew_disabled"
	ReasonPartialAutoRenewNotSupported = "partial_auto_renew_not_supported"
	ReasonOrderNotActive               = "order_not_active"
)

type NotificationResult struct {
	OrderID  uint   `json:"order_id" yaml:"order_id"`
	OrderSID string `json:"order_sid,omitempty" yaml:"order_sid,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Sent     bool   `json:"sent" yaml:"sent"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type NotificationSummary struct {
	Checked int                  `json:"checked" yaml:"checked"`
	Sent    int                  `json:"sent" yaml:"sent"`
	Results []NotificationResult `json:"results" yaml:"results"`
	// Error is set when the candidate orders could not be loaded.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

type RenewalResult struct {
	ProxyID    uint   `json:"proxy_id" yaml:"proxy_id"`
	OrderID    uint   `json:"order_id" yaml:"order_id"`
	Action     string `json:"action" yaml:"action"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	NewOrderID uint   `json:"new_order_id,omitempty" yaml:"new_order_id,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

type RenewalSummary struct {
	Checked      int             `json:"checked" yaml:"checked"`
	Renewed      int             `json:"renewed" yaml:"renewed"`
	Deactivated  int             `json:"deactivated" yaml:"deactivated"`
	QuotaUpdated int             `json:"quota_updated" yaml:"quota_updated"`
	Results      []RenewalResult `json:"results" yaml:"results"`
}

// RunReport is the body returned by the cron trigger and cached as the
// last run.
type RunReport struct {
	Success       bool                `json:"success" yaml:"success"`
	RunID         string              `json:"run_id" yaml:"run_id"`
	Notifications NotificationSummary `json:"notifications" yaml:"notifications"`
	Renewals      RenewalSummary      `json:"renewals" yaml:"renewals"`
	Timestamp     time.Time           `json:"timestamp" yaml:"timestamp"`
}

// DeactivationReport describes a single proxy teardown.
type DeactivationReport struct {
	ProxyID       uint                 `json:"proxy_id" yaml:"proxy_id"`
	QuotaReturned bool                 `json:"quota_returned" yaml:"quota_returned"`
	Upstream      []UpstreamRevocation `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	UpstreamError string               `json:"upstream_error,omitempty" yaml:"upstream_error,omitempty"`
}

type UpstreamRevocation struct {
	AccessID string `json:"access_id" yaml:"access_id"`
	Deleted  bool   `json:"deleted" yaml:"deleted"`
	Attempts int    `json:"attempts" yaml:"attempts"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}
