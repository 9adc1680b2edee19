package profile

import "context"

// Profile carries the contact channels and notification preferences of a
// user.
type Profile struct {
	UserID            uint
	DisplayName       string
	Email             string
	TelegramChatID    int64
	NotifyEmail       bool
	NotifyTelegram    bool
	ProxyExpiryAlerts bool
}

func (p *Profile) WantsEmail() bool {
	return p.ProxyExpiryAlerts && p.NotifyEmail && p.Email != ""
}

func (p *Profile) WantsTelegram() bool {
	return p.ProxyExpiryAlerts && p.NotifyTelegram && p.TelegramChatID != 0
}

type Repository interface {
	// GetByUserID returns nil, nil when the user has no profile.
	GetByUserID(ctx context.Context, userID uint) (*Profile, error)
}
