package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Channels(t *testing.T) {
	p := &Profile{
		Email:             "a@example.com",
		TelegramChatID:    42,
		NotifyEmail:       true,
		NotifyTelegram:    true,
		ProxyExpiryAlerts: true,
	}
	assert.True(t, p.WantsEmail())
	assert.True(t, p.WantsTelegram())

	p.ProxyExpiryAlerts = false
	assert.False(t, p.WantsEmail(), "master switch disables every channel")
	assert.False(t, p.WantsTelegram())

	p.ProxyExpiryAlerts = true
	p.Email = ""
	p.TelegramChatID = 0
	assert.False(t, p.WantsEmail(), "no address")
	assert.False(t, p.WantsTelegram(), "no chat bound")
}
