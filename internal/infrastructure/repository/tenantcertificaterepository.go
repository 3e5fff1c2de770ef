package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/infrastructure/persistence/models"
)

type TenantCertificateRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantCertificateRepository(db *gorm.DB) certificate.Repository {
	return &TenantCertificateRepositoryImpl{db: db}
}

func (r *TenantCertificateRepositoryImpl) Create(ctx context.Context, rec *certificate.Record) error {
	if err := r.db.WithContext(ctx).Create(certificateToModel(rec)).Error; err != nil {
		return fmt.Errorf("failed to create tenant certificate record: %w", err)
	}
	return nil
}

func (r *TenantCertificateRepositoryImpl) GetByKey(ctx context.Context, tenantKey string) (*certificate.Record, error) {
	var model models.TenantCertificateModel

	err := r.db.WithContext(ctx).Where("tenant_key = ?", tenantKey).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get certificate record by key: %w", err)
	}

	return certificateToEntity(&model), nil
}

func (r *TenantCertificateRepositoryImpl) GetByOwner(ctx context.Context, ownerID string) (*certificate.Record, error) {
	var model models.TenantCertificateModel

	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get certificate record by owner: %w", err)
	}

	return certificateToEntity(&model), nil
}

// ClaimFirstAvailable assigns the lowest-ranked free record with a
// conditional update. The WHERE owner_id IS NULL guard makes the claim
// atomic; a lost race moves on to the next candidate instead of sharing a
// record between two owners.
func (r *TenantCertificateRepositoryImpl) ClaimFirstAvailable(ctx context.Context, ownerID string) (*certificate.Record, error) {
	for {
		var model models.TenantCertificateModel

		err := r.db.WithContext(ctx).
			Where("owner_id IS NULL").
			Order("rank ASC, tenant_key ASC").
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to query free certificate records: %w", err)
		}

		result := r.db.WithContext(ctx).
			Model(&models.TenantCertificateModel{}).
			Where("tenant_key = ? AND owner_id IS NULL", model.TenantKey).
			Updates(map[string]interface{}{
				"owner_id":   ownerID,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to claim certificate record: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			// Another claimer won this record; try the next one.
			continue
		}

		model.OwnerID = &ownerID
		return certificateToEntity(&model), nil
	}
}

func certificateToModel(r *certificate.Record) *models.TenantCertificateModel {
	return &models.TenantCertificateModel{
		TenantKey:          r.TenantKey,
		Rank:               r.Rank,
		OwnerID:            r.OwnerID,
		SignerCertPath:     r.SignerCertPath,
		SignerKeyPath:      r.SignerKeyPath,
		RootCertPath:       r.RootCertPath,
		PassTypeIdentifier: r.PassTypeIdentifier,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func certificateToEntity(m *models.TenantCertificateModel) *certificate.Record {
	return &certificate.Record{
		TenantKey:          m.TenantKey,
		Rank:               m.Rank,
		OwnerID:            m.OwnerID,
		SignerCertPath:     m.SignerCertPath,
		SignerKeyPath:      m.SignerKeyPath,
		RootCertPath:       m.RootCertPath,
		PassTypeIdentifier: m.PassTypeIdentifier,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
