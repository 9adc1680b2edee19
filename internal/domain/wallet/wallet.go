package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidAmount       = errors.New("debit amount must be positive")
)

// Wallet is a user's prepaid balance.
type Wallet struct {
	ID        uint
	UserID    uint
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// Ledger reads and debits balances.
type Ledger interface {
	// GetBalance returns zero for users without a wallet.
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
	// Debit subtracts amount atomically and fails with
	// ErrInsufficientBalance rather than going negative.
	Debit(ctx context.Context, userID uint, amount decimal.Decimal) error
}
