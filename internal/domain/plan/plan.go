package plan

import (
	"context"

	"github.com/shopspring/decimal"
)

// Plan is the catalogue entry an order was bought from. Only the fields
// shown in notifications are loaded.
type Plan struct {
	ID           uint
	Name         string
	ProxyType    string
	DurationDays int
	Price        decimal.Decimal
}

type Repository interface {
	// GetByID returns nil, nil when the plan does not exist.
	GetByID(ctx context.Context, id uint) (*Plan, error)
}
