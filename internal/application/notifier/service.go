// Package notifier turns card-change events into silent push deliveries.
package notifier

import (
	"context"

	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/domain/device"
	"cardwallet/internal/domain/tenant"
	"cardwallet/internal/infrastructure/cache"
	"cardwallet/internal/infrastructure/pubsub"
	"cardwallet/internal/infrastructure/push"
	"cardwallet/internal/shared/logger"
)

// TokenSource reads the denormalized push-token mirror.
type TokenSource interface {
	Get(ctx context.Context, tenantID, serialNumber string) (*cache.TokenRecord, error)
}

// CertificateResolver produces the signing bundle for a tenant.
type CertificateResolver interface {
	Resolve(ctx context.Context, tenantID string) (*certificate.Resolution, error)
}

// Service consumes card-change events and notifies registered devices.
// Delivery is fire-and-forget: every failure is logged and swallowed, the
// next device poll corrects anything missed.
type Service struct {
	tenants tenant.Repository
	devices device.Repository
	tokens  TokenSource
	certs   CertificateResolver
	gateway push.Gateway
	logger  logger.Interface
}

func NewService(
	tenants tenant.Repository,
	devices device.Repository,
	tokens TokenSource,
	certs CertificateResolver,
	gateway push.Gateway,
	logger logger.Interface,
) *Service {
	return &Service{
		tenants: tenants,
		devices: devices,
		tokens:  tokens,
		certs:   certs,
		gateway: gateway,
		logger:  logger,
	}
}

// HandleChange is the pubsub.CardEventHandler entry point.
func (s *Service) HandleChange(ctx context.Context, event pubsub.CardChangeEvent) {
	if !event.Created && !event.Before.Monitored(event.After) {
		s.logger.Debugw("card change has no monitored-field delta, skipping push",
			"card_id", event.CardID,
		)
		return
	}

	tokens := s.collectTokens(ctx, event)
	if len(tokens) == 0 {
		s.logger.Debugw("no push tokens for changed card",
			"card_id", event.CardID,
			"serial_number", event.SerialNumber,
		)
		return
	}

	topic, err := s.lookupTopic(ctx, event.TenantID)
	if err != nil || topic == "" {
		s.logger.Warnw("no push topic for tenant, skipping push",
			"tenant_id", event.TenantID,
			"error", err,
		)
		return
	}

	res, err := s.certs.Resolve(ctx, event.TenantID)
	if err != nil {
		s.logger.Errorw("certificate resolution failed, push skipped",
			"tenant_id", event.TenantID,
			"card_id", event.CardID,
			"error", err,
		)
		return
	}

	result, err := s.gateway.Deliver(ctx, topic, tokens, &res.Bundle)
	if err != nil {
		s.logger.Errorw("push delivery failed",
			"tenant_id", event.TenantID,
			"card_id", event.CardID,
			"error", err,
		)
		return
	}

	s.logger.Infow("push delivered",
		"tenant_id", event.TenantID,
		"serial_number", event.SerialNumber,
		"sent", len(result.Sent),
		"failed", len(result.Failed),
	)
}

// collectTokens prefers the token carried on the event, then the Redis
// mirror, then the registration rows. Duplicates are collapsed.
func (s *Service) collectTokens(ctx context.Context, event pubsub.CardChangeEvent) []string {
	if event.After.PushToken != "" {
		return []string{event.After.PushToken}
	}

	if record, err := s.tokens.Get(ctx, event.TenantID, event.SerialNumber); err != nil {
		s.logger.Warnw("push token mirror lookup failed",
			"serial_number", event.SerialNumber,
			"error", err,
		)
	} else if record != nil && record.PushToken != "" {
		return []string{record.PushToken}
	}

	regs, err := s.devices.FindBySerial(ctx, event.SerialNumber)
	if err != nil {
		s.logger.Warnw("registration lookup failed",
			"serial_number", event.SerialNumber,
			"error", err,
		)
		return nil
	}

	if len(regs) > 1 {
		deviceIDs := make([]string, 0, len(regs))
		for _, reg := range regs {
			deviceIDs = append(deviceIDs, reg.DeviceID)
		}
		s.logger.Warnw("serial registered on multiple devices",
			"serial_number", event.SerialNumber,
			"device_count", len(regs),
			"device_ids", deviceIDs,
		)
	}

	seen := make(map[string]struct{}, len(regs))
	var tokens []string
	for _, reg := range regs {
		if reg.PushToken == "" {
			continue
		}
		if _, dup := seen[reg.PushToken]; dup {
			continue
		}
		seen[reg.PushToken] = struct{}{}
		tokens = append(tokens, reg.PushToken)
	}
	return tokens
}

func (s *Service) lookupTopic(ctx context.Context, tenantID string) (string, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if t == nil || !t.HasPushTopic() {
		return "", nil
	}
	return t.PassTypeIdentifier, nil
}
