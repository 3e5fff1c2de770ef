// Package push delivers silent notifications that tell devices to re-fetch
// their pass.
package push

import (
	"context"

	"cardwallet/internal/domain/certificate"
)

// Result reports per-token delivery outcome. Failures are logged by the
// caller, never retried; the polling endpoint eventually corrects a missed
// notification.
type Result struct {
	Sent   []string
	Failed []string
}

// Gateway is the deliver(topic, token) capability the notification trigger
// uses. The certificate bundle authenticates the sender to the gateway.
type Gateway interface {
	Deliver(ctx context.Context, topic string, tokens []string, bundle *certificate.Bundle) (*Result, error)
}
