package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cardwallet/internal/domain/tenant"
	"cardwallet/internal/infrastructure/persistence/models"
	sharederrors "cardwallet/internal/shared/errors"
)

type TenantRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) tenant.Repository {
	return &TenantRepositoryImpl{db: db}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, t *tenant.Tenant) error {
	if err := r.db.WithContext(ctx).Create(tenantToModel(t)).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *TenantRepositoryImpl) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var model models.TenantModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant by ID: %w", err)
	}

	return tenantToEntity(&model), nil
}

func (r *TenantRepositoryImpl) Update(ctx context.Context, t *tenant.Tenant) error {
	result := r.db.WithContext(ctx).Save(tenantToModel(t))
	if result.Error != nil {
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return sharederrors.NewNotFoundError("tenant not found")
	}

	return nil
}

func tenantToModel(t *tenant.Tenant) *models.TenantModel {
	return &models.TenantModel{
		ID:                 t.ID,
		Name:               t.Name,
		PassTypeIdentifier: t.PassTypeIdentifier,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func tenantToEntity(m *models.TenantModel) *tenant.Tenant {
	return &tenant.Tenant{
		ID:                 m.ID,
		Name:               m.Name,
		PassTypeIdentifier: m.PassTypeIdentifier,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
