package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/proxyshop/internal/domain/order"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
)

type OrderMapper interface {
	ToEntity(model *models.OrderModel) (*order.Order, error)
	ToModel(entity *order.Order) (*models.OrderModel, error)
	ToEntities(models []*models.OrderModel) ([]*order.Order, error)
}

type OrderMapperImpl struct{}

func NewOrderMapper() OrderMapper {
	return &OrderMapperImpl{}
}

func (m *OrderMapperImpl) ToEntity(model *models.OrderModel) (*order.Order, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	entity, err := order.ReconstructOrder(
		model.ID,
		model.SID,
		model.UserID,
		model.PlanID,
		order.Status(model.Status),
		model.TotalAmount,
		model.Quantity,
		model.StartAt.UTC(),
		model.ExpiresAt.UTC(),
		model.AutoRenew,
		metadata,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct order entity: %w", err)
	}

	return entity, nil
}

func (m *OrderMapperImpl) ToModel(entity *order.Order) (*models.OrderModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	return &models.OrderModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		UserID:      entity.UserID(),
		PlanID:      entity.PlanID(),
		Status:      entity.Status().String(),
		TotalAmount: entity.TotalAmount(),
		Quantity:    entity.Quantity(),
		StartAt:     entity.StartAt(),
		ExpiresAt:   entity.ExpiresAt(),
		AutoRenew:   entity.AutoRenew(),
		Metadata:    metadataJSON,
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func (m *OrderMapperImpl) ToEntities(models []*models.OrderModel) ([]*order.Order, error) {
	entities := make([]*order.Order, 0, len(models))
	for _, model := range models {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
