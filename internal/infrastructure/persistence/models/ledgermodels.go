package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
)

// QuotaModel is the singleton capacity row
type QuotaModel struct {
	ID                        uint  `gorm:"primarykey"`
	AvailableConnectionNumber int64 `gorm:"not null;default:0"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (QuotaModel) TableName() string {
	return constants.TableQuotas
}

type WalletModel struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletModel) TableName() string {
	return constants.TableWallets
}

type ProfileModel struct {
	ID                uint   `gorm:"primarykey"`
	UserID            uint   `gorm:"uniqueIndex;not null"`
	DisplayName       string `gorm:"size:100"`
	Email             string `gorm:"size:255"`
	TelegramChatID    int64
	NotifyEmail       bool `gorm:"not null"`
	NotifyTelegram    bool `gorm:"not null"`
	ProxyExpiryAlerts bool `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ProfileModel) TableName() string {
	return constants.TableProfiles
}

type PlanModel struct {
	ID           uint            `gorm:"primarykey"`
	Name         string          `gorm:"not null;size:100"`
	ProxyType    string          `gorm:"not null;size:20;comment:mobile/residential/datacenter"`
	DurationDays int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&OrderModel{},
		&ProxyModel{},
		&QuotaModel{},
		&WalletModel{},
		&ProfileModel{},
		&PlanModel{},
	}
}
