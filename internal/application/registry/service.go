// Package registry manages device-to-pass subscriptions.
package registry

import (
	"context"
	"fmt"

	"cardwallet/internal/domain/device"
	"cardwallet/internal/infrastructure/cache"
	"cardwallet/internal/shared/logger"
)

// Service persists registrations and mirrors the push token into the
// denormalized token store the notification trigger reads.
type Service struct {
	devices device.Repository
	tokens  *cache.PushTokenStore
	logger  logger.Interface
}

func NewService(devices device.Repository, tokens *cache.PushTokenStore, logger logger.Interface) *Service {
	return &Service{
		devices: devices,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register upserts the registration keyed by device id and returns whether a
// new row was created. An existing row keeps its original CreatedAt.
func (s *Service) Register(ctx context.Context, deviceID, pushToken, serialNumber, tenantID, passTypeIdentifier string) (bool, error) {
	existing, err := s.devices.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return false, fmt.Errorf("failed to load existing registration: %w", err)
	}
	if existing != nil && existing.SerialNumber != serialNumber {
		// One device, one registration row: the new pass displaces the old
		// one. Logged because support requests about "lost" passes trace
		// back to this.
		s.logger.Infow("device re-registered for a different pass",
			"device_id", deviceID,
			"previous_serial", existing.SerialNumber,
			"serial_number", serialNumber,
		)
	}

	reg, err := device.NewRegistration(deviceID, pushToken, serialNumber, tenantID, passTypeIdentifier)
	if err != nil {
		return false, err
	}

	if err := s.devices.Upsert(ctx, reg); err != nil {
		return false, fmt.Errorf("failed to upsert registration: %w", err)
	}

	if err := s.tokens.Upsert(ctx, tenantID, serialNumber, cache.TokenRecord{
		PushToken: pushToken,
		DeviceID:  deviceID,
	}); err != nil {
		// The relational row is authoritative; a stale token cache only
		// delays a push until the next register.
		s.logger.Warnw("failed to mirror push token",
			"device_id", deviceID,
			"serial_number", serialNumber,
			"error", err,
		)
	}

	return existing == nil, nil
}

// Unregister acknowledges the device's request without removing state. The
// registration row survives and is displaced by the next register; deletion
// was never implemented upstream and clients tolerate the no-op.
func (s *Service) Unregister(ctx context.Context, deviceID, serialNumber string) error {
	s.logger.Infow("device unregister acknowledged",
		"device_id", deviceID,
		"serial_number", serialNumber,
	)
	return nil
}

// Registrations lists the registrations a device polls for.
func (s *Service) Registrations(ctx context.Context, deviceID, passTypeIdentifier string) ([]*device.Registration, error) {
	regs, err := s.devices.FindByDeviceAndPassType(ctx, deviceID, passTypeIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}
