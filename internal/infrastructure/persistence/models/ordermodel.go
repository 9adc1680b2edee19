package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/orris-inc/proxyshop/internal/shared/constants"
)

// OrderModel is the persistence model for orders
type OrderModel struct {
	ID          uint            `gorm:"primarykey"`
	SID         string          `gorm:"column:sid;not null;size:50;uniqueIndex:idx_order_sid"` // Stripe-style prefixed ID (ord_xxx)
	UserID      uint            `gorm:"not null;index:idx_order_user"`
	PlanID      uint            `gorm:"not null;index:idx_order_plan"`
	Status      string          `gorm:"not null;size:20;index:idx_order_status_expires,priority:1"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Quantity    int             `gorm:"not null;default:1"`
	StartAt     time.Time       `gorm:"not null"`
	ExpiresAt   time.Time       `gorm:"not null;index:idx_order_status_expires,priority:2"`
	AutoRenew   bool            `gorm:"not null"`
	Metadata    datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OrderModel) TableName() string {
	return constants.TableOrders
}
