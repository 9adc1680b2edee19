package models

import (
	"time"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
)

// ProxyModel is the persistence model for provisioned proxies
type ProxyModel struct {
	ID           uint      `gorm:"primarykey"`
	UserID       uint      `gorm:"not null;index:idx_proxy_user"`
	OrderID      uint      `gorm:"not null;index:idx_proxy_order"`
	Protocol     string    `gorm:"not null;size:10"`
	Host         string    `gorm:"not null;size:255"`
	Port         int       `gorm:"not null"`
	Username     string    `gorm:"size:100"`
	Password     string    `gorm:"size:255"`
	Status       string    `gorm:"not null;size:20;index:idx_proxy_status_expires,priority:1"`
	ExpiresAt    time.Time `gorm:"not null;index:idx_proxy_status_expires,priority:2"`
	AutoRenew    bool      `gorm:"not null"`
	ConnectionID string    `gorm:"size:100;comment:upstream provider connection id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProxyModel) TableName() string {
	return constants.TableProxies
}
