package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Database table names
	TableOrders   = "orders"
	TableProxies  = "proxies"
	TableQuotas   = "quotas"
	TableWallets  = "wallets"
	TableProfiles = "profiles"
	TablePlans    = "plans"

	// Order metadata keys
	MetaExpiryNotificationSentAt = "expiry_notification_sent_at"
	MetaAutoRenewed              = "auto_renewed"
	MetaOriginalOrderID          = "original_order_id"
)
