package models

import (
	"time"

	"cardwallet/internal/shared/constants"
)

type DeviceRegistrationModel struct {
	DeviceID           string `gorm:"primaryKey;size:64"`
	PushToken          string `gorm:"size:255;not null"`
	SerialNumber       string `gorm:"size:255;not null;index"`
	TenantID           string `gorm:"size:36;index"`
	PassTypeIdentifier string `gorm:"size:255;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (DeviceRegistrationModel) TableName() string {
	return constants.TableDeviceRegistrations
}
