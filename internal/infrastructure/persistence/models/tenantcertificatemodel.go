package models

import (
	"time"

	"cardwallet/internal/shared/constants"
)

type TenantCertificateModel struct {
	TenantKey string  `gorm:"primaryKey;size:64"`
	Rank      int     `gorm:"not null;index"`
	OwnerID   *string `gorm:"size:36;uniqueIndex"`
	// Blob-store paths for the three bundle parts.
	SignerCertPath     string `gorm:"size:512"`
	SignerKeyPath      string `gorm:"size:512"`
	RootCertPath       string `gorm:"size:512"`
	PassTypeIdentifier string `gorm:"size:255"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (TenantCertificateModel) TableName() string {
	return constants.TableTenantCertificates
}
