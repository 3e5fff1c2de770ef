package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/infrastructure/persistence/models"
	sharederrors "cardwallet/internal/shared/errors"
)

type CardRepositoryImpl struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) card.Repository {
	return &CardRepositoryImpl{db: db}
}

func (r *CardRepositoryImpl) Create(ctx context.Context, c *card.Card) error {
	model, err := cardToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map card to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

func (r *CardRepositoryImpl) Update(ctx context.Context, c *card.Card) error {
	model, err := cardToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map card to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update card: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return sharederrors.NewNotFoundError("card not found")
	}

	return nil
}

func (r *CardRepositoryImpl) GetByID(ctx context.Context, id string) (*card.Card, error) {
	var model models.CardModel

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card by ID: %w", err)
	}

	return cardToEntity(&model)
}

func (r *CardRepositoryImpl) FindByEmail(ctx context.Context, email string) (*card.Card, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *CardRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*card.Card, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *CardRepositoryImpl) FindByAnonymousID(ctx context.Context, anonymousID string) (*card.Card, error) {
	return r.findOne(ctx, "anonymous_id = ?", anonymousID)
}

func (r *CardRepositoryImpl) FindByFullID(ctx context.Context, fullID string) (*card.Card, error) {
	return r.findOne(ctx, "full_id = ?", fullID)
}

func (r *CardRepositoryImpl) FindByNumericKey(ctx context.Context, key string) (*card.Card, error) {
	return r.findOne(ctx, "numeric_key = ?", key)
}

// findOne runs a limit-1 equality query; the first row wins. Duplicates on
// the secondary fields are not detected here.
func (r *CardRepositoryImpl) findOne(ctx context.Context, query string, arg string) (*card.Card, error) {
	var model models.CardModel

	err := r.db.WithContext(ctx).Where(query, arg).Limit(1).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}

	return cardToEntity(&model)
}

func cardToModel(c *card.Card) (*models.CardModel, error) {
	display, err := json.Marshal(c.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal display fields: %w", err)
	}

	return &models.CardModel{
		ID:             c.ID,
		UserID:         c.UserID,
		AnonymousID:    c.AnonymousID,
		Email:          c.Email,
		FullID:         c.FullID,
		NumericKey:     c.NumericKey,
		TenantID:       c.TenantID,
		Display:        display,
		LastModifiedAt: c.LastModifiedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}, nil
}

func cardToEntity(m *models.CardModel) (*card.Card, error) {
	var display card.Display
	if len(m.Display) > 0 {
		if err := json.Unmarshal(m.Display, &display); err != nil {
			return nil, fmt.Errorf("failed to unmarshal display fields: %w", err)
		}
	}

	return &card.Card{
		ID:             m.ID,
		UserID:         m.UserID,
		AnonymousID:    m.AnonymousID,
		Email:          m.Email,
		FullID:         m.FullID,
		NumericKey:     m.NumericKey,
		TenantID:       m.TenantID,
		Display:        display,
		LastModifiedAt: m.LastModifiedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
