// Package passkit assembles the binary pass artifact served to devices.
package passkit

import (
	"context"

	"cardwallet/internal/domain/certificate"
)

// Payload carries the field values rendered into a pass. The builder treats
// them verbatim; business meaning lives with the card.
type Payload struct {
	PassTypeIdentifier string
	SerialNumber       string
	TeamIdentifier     string
	OrganizationName   string
	Description        string

	Name         string
	Balance      float64
	StampCount   int
	DiscountTier string
}

// Builder produces a signed pass archive from a payload and a resolved
// certificate bundle.
type Builder interface {
	Build(ctx context.Context, payload Payload, bundle *certificate.Bundle) ([]byte, error)
}
