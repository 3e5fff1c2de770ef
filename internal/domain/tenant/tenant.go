// Package tenant holds the business entity owning cards and one
// certificate bundle.
package tenant

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID                 string
	Name               string
	PassTypeIdentifier string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewTenant(name, passTypeIdentifier string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}

	now := time.Now().UTC()
	return &Tenant{
		ID:                 uuid.NewString(),
		Name:               name,
		PassTypeIdentifier: passTypeIdentifier,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// HasPushTopic reports whether the tenant can be addressed by the
// notification gateway.
func (t *Tenant) HasPushTopic() bool {
	return t.PassTypeIdentifier != ""
}
