package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/proxyshop/internal/domain/order"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxyshop/internal/shared/db"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

type OrderRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.OrderMapper
	logger logger.Interface
}

func NewOrderRepository(db *gorm.DB, logger logger.Interface) order.Repository {
	return &OrderRepositoryImpl{
		db:     db,
		mapper: mappers.NewOrderMapper(),
		logger: logger,
	}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, entity *order.Order) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map order entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create order", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set order ID: %w", err)
	}

	r.logger.Debugw("order created", "id", model.ID, "sid", model.SID, "user_id", model.UserID)
	return nil
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get order by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *OrderRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) (map[uint]*order.Order, error) {
	result := make(map[uint]*order.Order, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []*models.OrderModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to get orders by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	entities, err := r.mapper.ToEntities(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		result[e.ID()] = e
	}
	return result, nil
}

// Update persists status and metadata, the only mutable order fields.
func (r *OrderRepositoryImpl) Update(ctx context.Context, entity *order.Order) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map order entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"metadata":   model.Metadata,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update order", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepositoryImpl) FindActiveExpiringBetween(ctx context.Context, from, to time.Time) ([]*order.Order, error) {
	var rows []*models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", order.StatusActive.String()).
		Where("expires_at > ? AND expires_at <= ?", from, to).
		Order("expires_at ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to find expiring orders", "error", err)
		return nil, fmt.Errorf("failed to find expiring orders: %w", err)
	}

	return r.mapper.ToEntities(rows)
}
