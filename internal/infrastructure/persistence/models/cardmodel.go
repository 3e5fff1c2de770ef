package models

import (
	"time"

	"gorm.io/datatypes"

	"cardwallet/internal/shared/constants"
)

type CardModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"size:64;index"`
	AnonymousID string `gorm:"size:64;index"`
	Email       string `gorm:"size:255;index"`
	FullID      string `gorm:"size:128;index"`
	TenantID    string `gorm:"size:36;not null;index"`
	// NumericKey carries the legacy datastore integer key for cards
	// migrated from the old system.
	NumericKey     string `gorm:"size:32;index"`
	Display        datatypes.JSON
	LastModifiedAt time.Time `gorm:"index;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CardModel) TableName() string {
	return constants.TableCards
}
