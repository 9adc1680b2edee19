package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orris-inc/proxyshop/internal/domain/wallet"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxyshop/internal/shared/db"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

type WalletRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewWalletRepository(db *gorm.DB, logger logger.Interface) wallet.Ledger {
	return &WalletRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *WalletRepositoryImpl) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var model models.WalletModel

	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	return model.Balance, nil
}

// Debit is a conditional update so two concurrent debits cannot overdraw
// the wallet.
func (r *WalletRepositoryImpl) Debit(ctx context.Context, userID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return wallet.ErrInvalidAmount
	}

	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.WalletModel{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to debit wallet", "user_id", userID, "amount", amount.String(), "error", result.Error)
		return fmt.Errorf("failed to debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		r.logger.Infow("wallet debited", "user_id", userID, "amount", amount.String())
		return nil
	}

	var count int64
	if err := tx.Model(&models.WalletModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check wallet: %w", err)
	}
	if count == 0 {
		return wallet.ErrWalletNotFound
	}
	return wallet.ErrInsufficientBalance
}
