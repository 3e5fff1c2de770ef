// Package device models a device's subscription for push-triggered pass
// refresh.
package device

import (
	"fmt"
	"time"
)

// Registration maps one device to the one pass it is currently registered
// for. Re-registration overwrites; the device id is the physical key.
type Registration struct {
	DeviceID           string
	PushToken          string
	SerialNumber       string
	TenantID           string
	PassTypeIdentifier string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewRegistration(deviceID, pushToken, serialNumber, tenantID, passTypeIdentifier string) (*Registration, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID is required")
	}
	if pushToken == "" {
		return nil, fmt.Errorf("push token is required")
	}
	if serialNumber == "" {
		return nil, fmt.Errorf("serial number is required")
	}

	now := time.Now().UTC()
	return &Registration{
		DeviceID:           deviceID,
		PushToken:          pushToken,
		SerialNumber:       serialNumber,
		TenantID:           tenantID,
		PassTypeIdentifier: passTypeIdentifier,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}
