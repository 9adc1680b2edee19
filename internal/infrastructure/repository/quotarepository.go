package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/proxyshop/internal/domain/quota"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxyshop/internal/shared/db"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

type QuotaRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewQuotaRepository(db *gorm.DB, logger logger.Interface) quota.Repository {
	return &QuotaRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *QuotaRepositoryImpl) Get(ctx context.Context) (*quota.Quota, error) {
	var model models.QuotaModel

	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}

	return &quota.Quota{ID: model.ID, AvailableConnectionNumber: model.AvailableConnectionNumber}, nil
}

func (r *QuotaRepositoryImpl) Create(ctx context.Context, value int64) (*quota.Quota, error) {
	if value < 0 {
		return nil, quota.ErrNegativeQuota
	}

	model := models.QuotaModel{AvailableConnectionNumber: value}
	if err := db.GetTxFromContext(ctx, r.db).Create(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to create quota: %w", err)
	}

	r.logger.Infow("quota row created", "id", model.ID, "available_connection_number", value)
	return &quota.Quota{ID: model.ID, AvailableConnectionNumber: value}, nil
}

func (r *QuotaRepositoryImpl) Set(ctx context.Context, id uint, value int64) error {
	if value < 0 {
		return quota.ErrNegativeQuota
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.QuotaModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available_connection_number": value,
			"updated_at":                  time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set quota: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("quota %d not found", id)
	}
	return nil
}

func (r *QuotaRepositoryImpl) Increment(ctx context.Context, id uint, delta int64) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.QuotaModel{}).
		Where("id = ? AND available_connection_number + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"available_connection_number": gorm.Expr("available_connection_number + ?", delta),
			"updated_at":                  time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increment quota: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.QuotaModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check quota: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("quota %d not found", id)
	}
	return quota.ErrNegativeQuota
}
