package certificate

import "context"

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByKey(ctx context.Context, tenantKey string) (*Record, error)
	GetByOwner(ctx context.Context, ownerID string) (*Record, error)
	// ClaimFirstAvailable atomically assigns the lowest-ranked unowned
	// record to ownerID. The write must be conditional on the record still
	// being unowned; concurrent claimers must never share a record.
	// Returns (nil, nil) when no record is free.
	ClaimFirstAvailable(ctx context.Context, ownerID string) (*Record, error)
}
