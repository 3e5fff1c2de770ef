package push

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/sideshow/apns2"

	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/shared/config"
	"cardwallet/internal/shared/logger"
)

// silentPayload wakes the device without showing anything; the device
// responds by re-fetching the pass.
const silentPayload = `{"aps":{}}`

// APNSGateway implements Gateway over the Apple Push Notification service.
// A client is built per delivery because the signing certificate differs
// per tenant.
type APNSGateway struct {
	production bool
	logger     logger.Interface
}

func NewAPNSGateway(cfg *config.PushConfig, logger logger.Interface) *APNSGateway {
	return &APNSGateway{
		production: cfg.Mode == "production",
		logger:     logger,
	}
}

func (g *APNSGateway) Deliver(ctx context.Context, topic string, tokens []string, bundle *certificate.Bundle) (*Result, error) {
	if !bundle.Complete() {
		return nil, fmt.Errorf("certificate bundle is incomplete")
	}

	cert, err := tls.X509KeyPair(bundle.SignerCert, bundle.SignerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load signer key pair: %w", err)
	}

	client := apns2.NewClient(cert)
	if g.production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	result := &Result{}
	for _, token := range tokens {
		notification := &apns2.Notification{
			DeviceToken: token,
			Topic:       topic,
			Payload:     []byte(silentPayload),
		}

		res, err := client.PushWithContext(ctx, notification)
		if err != nil {
			g.logger.Warnw("push delivery failed",
				"topic", topic,
				"token", token,
				"error", err,
			)
			result.Failed = append(result.Failed, token)
			continue
		}

		if !res.Sent() {
			g.logger.Warnw("push rejected by gateway",
				"topic", topic,
				"token", token,
				"status", res.StatusCode,
				"reason", res.Reason,
			)
			result.Failed = append(result.Failed, token)
			continue
		}

		result.Sent = append(result.Sent, token)
	}

	return result, nil
}
