// Package certificate models the per-tenant signing material used to produce
// verifiable passes.
package certificate

import (
	"fmt"
	"time"
)

// Record identifies which certificate bundle a tenant uses. Records are
// provisioned by setup tooling; OwnerID transitions once from nil to a tenant
// id via the claim operation and is otherwise immutable.
type Record struct {
	TenantKey          string
	Rank               int
	OwnerID            *string
	SignerCertPath     string
	SignerKeyPath      string
	RootCertPath       string
	PassTypeIdentifier string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewRecord(tenantKey string, rank int, signerCertPath, signerKeyPath, rootCertPath, passTypeIdentifier string) (*Record, error) {
	if tenantKey == "" {
		return nil, fmt.Errorf("tenant key is required")
	}

	now := time.Now().UTC()
	return &Record{
		TenantKey:          tenantKey,
		Rank:               rank,
		SignerCertPath:     signerCertPath,
		SignerKeyPath:      signerKeyPath,
		RootCertPath:       rootCertPath,
		PassTypeIdentifier: passTypeIdentifier,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Assigned reports whether the record has been claimed by a tenant.
func (r *Record) Assigned() bool {
	return r.OwnerID != nil && *r.OwnerID != ""
}

// Complete reports whether all three blob paths are set. An incomplete
// record can never yield a usable bundle.
func (r *Record) Complete() bool {
	return r.SignerCertPath != "" && r.SignerKeyPath != "" && r.RootCertPath != ""
}
