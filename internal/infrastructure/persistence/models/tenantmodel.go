package models

import (
	"time"

	"cardwallet/internal/shared/constants"
)

type TenantModel struct {
	ID                 string `gorm:"primaryKey;size:36"`
	Name               string `gorm:"size:255;not null"`
	PassTypeIdentifier string `gorm:"size:255"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (TenantModel) TableName() string {
	return constants.TableTenants
}
