package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardwallet/internal/domain/device"
	"cardwallet/internal/infrastructure/persistence/models"
)

type DeviceRegistrationRepositoryImpl struct {
	db *gorm.DB
}

func NewDeviceRegistrationRepository(db *gorm.DB) device.Repository {
	return &DeviceRegistrationRepositoryImpl{db: db}
}

// Upsert writes the registration keyed by device id. The conflict clause
// leaves created_at alone so re-registrations keep the original timestamp.
func (r *DeviceRegistrationRepositoryImpl) Upsert(ctx context.Context, reg *device.Registration) error {
	model := registrationToModel(reg)
	model.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"push_token", "serial_number", "tenant_id", "pass_type_identifier", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert device registration: %w", err)
	}

	return nil
}

func (r *DeviceRegistrationRepositoryImpl) GetByDeviceID(ctx context.Context, deviceID string) (*device.Registration, error) {
	var model models.DeviceRegistrationModel

	err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get device registration: %w", err)
	}

	return registrationToEntity(&model), nil
}

func (r *DeviceRegistrationRepositoryImpl) FindBySerial(ctx context.Context, serialNumber string) ([]*device.Registration, error) {
	var modelList []*models.DeviceRegistrationModel

	err := r.db.WithContext(ctx).
		Where("serial_number = ?", serialNumber).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find registrations by serial: %w", err)
	}

	return registrationsToEntities(modelList), nil
}

func (r *DeviceRegistrationRepositoryImpl) FindByDeviceAndPassType(ctx context.Context, deviceID, passTypeIdentifier string) ([]*device.Registration, error) {
	var modelList []*models.DeviceRegistrationModel

	err := r.db.WithContext(ctx).
		Where("device_id = ? AND pass_type_identifier = ?", deviceID, passTypeIdentifier).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find registrations by device: %w", err)
	}

	return registrationsToEntities(modelList), nil
}

func registrationToModel(r *device.Registration) *models.DeviceRegistrationModel {
	return &models.DeviceRegistrationModel{
		DeviceID:           r.DeviceID,
		PushToken:          r.PushToken,
		SerialNumber:       r.SerialNumber,
		TenantID:           r.TenantID,
		PassTypeIdentifier: r.PassTypeIdentifier,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func registrationToEntity(m *models.DeviceRegistrationModel) *device.Registration {
	return &device.Registration{
		DeviceID:           m.DeviceID,
		PushToken:          m.PushToken,
		SerialNumber:       m.SerialNumber,
		TenantID:           m.TenantID,
		PassTypeIdentifier: m.PassTypeIdentifier,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func registrationsToEntities(modelList []*models.DeviceRegistrationModel) []*device.Registration {
	entities := make([]*device.Registration, 0, len(modelList))
	for _, m := range modelList {
		entities = append(entities, registrationToEntity(m))
	}
	return entities
}
