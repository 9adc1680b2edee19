package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/proxyshop/internal/domain/proxy"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxyshop/internal/shared/db"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

type ProxyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProxyMapper
	logger logger.Interface
}

func NewProxyRepository(db *gorm.DB, logger logger.Interface) proxy.Repository {
	return &ProxyRepositoryImpl{
		db:     db,
		mapper: mappers.NewProxyMapper(),
		logger: logger,
	}
}

func (r *ProxyRepositoryImpl) GetByID(ctx context.Context, id uint) (*proxy.Proxy, error) {
	var model models.ProxyModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get proxy by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get proxy: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update persists the fields the reconciler changes: order link, expiry
// and status.
func (r *ProxyRepositoryImpl) Update(ctx context.Context, entity *proxy.Proxy) error {
	model := r.mapper.ToModel(entity)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProxyModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"order_id":   model.OrderID,
			"expires_at": model.ExpiresAt,
			"status":     model.Status,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update proxy", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update proxy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return proxy.ErrProxyNotFound
	}

	return nil
}

func (r *ProxyRepositoryImpl) FindActiveExpiredBefore(ctx context.Context, now time.Time) ([]*proxy.Proxy, error) {
	var rows []*models.ProxyModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", proxy.StatusActive.String()).
		Where("expires_at < ?", now).
		Order("order_id ASC, id ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to find expired proxies", "error", err)
		return nil, fmt.Errorf("failed to find expired proxies: %w", err)
	}

	return r.mapper.ToEntities(rows)
}

func (r *ProxyRepositoryImpl) FindActiveByOrderID(ctx context.Context, orderID uint) ([]*proxy.Proxy, error) {
	var rows []*models.ProxyModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Where("status = ?", proxy.StatusActive.String()).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to find proxies by order", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to find proxies for order: %w", err)
	}

	return r.mapper.ToEntities(rows)
}
