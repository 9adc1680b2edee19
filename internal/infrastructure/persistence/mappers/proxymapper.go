package mappers

import (
	"fmt"

	"github.com/orris-inc/proxyshop/internal/domain/proxy"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
)

type ProxyMapper interface {
	ToEntity(model *models.ProxyModel) (*proxy.Proxy, error)
	ToModel(entity *proxy.Proxy) *models.ProxyModel
	ToEntities(models []*models.ProxyModel) ([]*proxy.Proxy, error)
}

type ProxyMapperImpl struct{}

func NewProxyMapper() ProxyMapper {
	return &ProxyMapperImpl{}
}

func (m *ProxyMapperImpl) ToEntity(model *models.ProxyModel) (*proxy.Proxy, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := proxy.ReconstructProxy(
		model.ID,
		model.UserID,
		model.OrderID,
		proxy.Protocol(model.Protocol),
		model.Host,
		model.Port,
		model.Username,
		model.Password,
		proxy.Status(model.Status),
		model.ExpiresAt.UTC(),
		model.AutoRenew,
		model.ConnectionID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct proxy entity: %w", err)
	}
	return entity, nil
}

func (m *ProxyMapperImpl) ToModel(entity *proxy.Proxy) *models.ProxyModel {
	if entity == nil {
		return nil
	}
	return &models.ProxyModel{
		ID:           entity.ID(),
		UserID:       entity.UserID(),
		OrderID:      entity.OrderID(),
		Protocol:     string(entity.Protocol()),
		Host:         entity.Host(),
		Port:         entity.Port(),
		Username:     entity.Username(),
		Password:     entity.Password(),
		Status:       entity.Status().String(),
		ExpiresAt:    entity.ExpiresAt(),
		AutoRenew:    entity.AutoRenew(),
		ConnectionID: entity.ConnectionID(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func (m *ProxyMapperImpl) ToEntities(models []*models.ProxyModel) ([]*proxy.Proxy, error) {
	entities := make([]*proxy.Proxy, 0, len(models))
	for _, model := range models {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("proxy %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
