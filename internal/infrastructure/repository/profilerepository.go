package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/proxyshop/internal/domain/plan"
	"github.com/orris-inc/proxyshop/internal/domain/profile"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxyshop/internal/shared/db"
)

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) profile.Repository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*profile.Profile, error) {
	var model models.ProfileModel

	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile.Profile{
		UserID:            model.UserID,
		DisplayName:       model.DisplayName,
		Email:             model.Email,
		TelegramChatID:    model.TelegramChatID,
		NotifyEmail:       model.NotifyEmail,
		NotifyTelegram:    model.NotifyTelegram,
		ProxyExpiryAlerts: model.ProxyExpiryAlerts,
	}, nil
}

type PlanRepositoryImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) plan.Repository {
	return &PlanRepositoryImpl{db: db}
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return &plan.Plan{
		ID:           model.ID,
		Name:         model.Name,
		ProxyType:    model.ProxyType,
		DurationDays: model.DurationDays,
		Price:        model.Price,
	}, nil
}
