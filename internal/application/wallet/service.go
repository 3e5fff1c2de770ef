// Package wallet implements the device-facing pass web service: register,
// poll, re-issue, log.
package wallet

import (
	"context"
	"fmt"
	"time"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/domain/device"
	"cardwallet/internal/infrastructure/passkit"
	"cardwallet/internal/shared/config"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

// IdentityResolver maps a raw identifier to a card.
type IdentityResolver interface {
	Resolve(ctx context.Context, raw string) (*card.Card, error)
}

// CertificateResolver produces the signing bundle for a tenant.
type CertificateResolver interface {
	Resolve(ctx context.Context, tenantID string) (*certificate.Resolution, error)
}

// DeviceRegistry is the subscription surface the protocol handler drives.
type DeviceRegistry interface {
	Register(ctx context.Context, deviceID, pushToken, serialNumber, tenantID, passTypeIdentifier string) (bool, error)
	Unregister(ctx context.Context, deviceID, serialNumber string) error
	Registrations(ctx context.Context, deviceID, passTypeIdentifier string) ([]*device.Registration, error)
}

// PollResult lists the serial numbers a device should re-fetch. Poll returns
// (nil, nil) when the device has no registrations at all for the pass type;
// an empty SerialNumbers slice means registered but nothing changed.
type PollResult struct {
	SerialNumbers []string
	LastUpdated   time.Time
}

// Pass is a freshly built archive plus the timestamp devices cache against.
type Pass struct {
	Data         []byte
	LastModified time.Time
}

// Service wires identity resolution, the device registry, certificate
// resolution and the pass builder behind the webhook protocol.
type Service struct {
	identities IdentityResolver
	registry   DeviceRegistry
	certs      CertificateResolver
	builder    passkit.Builder
	walletCfg  *config.WalletConfig
	logger     logger.Interface
}

func NewService(
	identities IdentityResolver,
	registry DeviceRegistry,
	certs CertificateResolver,
	builder passkit.Builder,
	walletCfg *config.WalletConfig,
	logger logger.Interface,
) *Service {
	return &Service{
		identities: identities,
		registry:   registry,
		certs:      certs,
		builder:    builder,
		walletCfg:  walletCfg,
		logger:     logger,
	}
}

// Register subscribes a device to the pass named by serialNumber. The serial
// must resolve to a card; the card's tenant scopes the push-token mirror.
func (s *Service) Register(ctx context.Context, deviceID, passTypeIdentifier, serialNumber, pushToken string) (bool, error) {
	c, err := s.identities.Resolve(ctx, serialNumber)
	if err != nil {
		return false, err
	}

	created, err := s.registry.Register(ctx, deviceID, pushToken, c.SerialNumber(), c.TenantID, passTypeIdentifier)
	if err != nil {
		return false, fmt.Errorf("failed to register device: %w", err)
	}

	return created, nil
}

// Unregister acknowledges the unsubscribe without touching state.
func (s *Service) Unregister(ctx context.Context, deviceID, passTypeIdentifier, serialNumber string) error {
	return s.registry.Unregister(ctx, deviceID, serialNumber)
}

// Poll returns the serials whose cards changed strictly after modifiedSince.
// A nil modifiedSince returns every registered serial. Serials whose card no
// longer resolves are skipped.
func (s *Service) Poll(ctx context.Context, deviceID, passTypeIdentifier string, modifiedSince *time.Time) (*PollResult, error) {
	regs, err := s.registry.Registrations(ctx, deviceID, passTypeIdentifier)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, nil
	}

	result := &PollResult{}
	for _, reg := range regs {
		c, err := s.identities.Resolve(ctx, reg.SerialNumber)
		if err != nil {
			if errors.IsIdentityNotFound(err) {
				s.logger.Warnw("registered serial no longer resolves",
					"device_id", deviceID,
					"serial_number", reg.SerialNumber,
				)
				continue
			}
			return nil, err
		}

		if modifiedSince != nil && !c.ModifiedAfter(*modifiedSince) {
			continue
		}

		result.SerialNumbers = append(result.SerialNumbers, reg.SerialNumber)
		if c.LastModifiedAt.After(result.LastUpdated) {
			result.LastUpdated = c.LastModifiedAt
		}
	}

	return result, nil
}

// Reissue builds a signed pass for the serial from the card's current state.
// Certificate resolution failure is a hard error; an unsigned or partially
// signed pass must never reach a device.
func (s *Service) Reissue(ctx context.Context, passTypeIdentifier, serialNumber string) (*Pass, error) {
	c, err := s.identities.Resolve(ctx, serialNumber)
	if err != nil {
		return nil, err
	}

	res, err := s.certs.Resolve(ctx, c.TenantID)
	if err != nil {
		return nil, err
	}
	if res.Source == certificate.SourceDefault {
		s.logger.Warnw("pass signed with default certificate bundle",
			"tenant_id", c.TenantID,
			"serial_number", c.SerialNumber(),
		)
	}

	payload := passkit.Payload{
		PassTypeIdentifier: passTypeIdentifier,
		SerialNumber:       c.SerialNumber(),
		TeamIdentifier:     s.walletCfg.TeamIdentifier,
		OrganizationName:   s.walletCfg.OrganizationName,
		Description:        "Loyalty card",
		Name:               c.Display.Name,
		Balance:            c.Display.Balance,
		StampCount:         c.Display.StampCount,
		DiscountTier:       c.Display.DiscountTier,
	}

	data, err := s.builder.Build(ctx, payload, &res.Bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to build pass: %w", err)
	}

	return &Pass{Data: data, LastModified: c.LastModifiedAt}, nil
}

// RecordLog forwards device-reported log lines to the server log. The
// payload is diagnostic only; malformed entries are dropped upstream.
func (s *Service) RecordLog(ctx context.Context, messages []string) {
	for _, msg := range messages {
		s.logger.Infow("device log", "message", msg)
	}
}
