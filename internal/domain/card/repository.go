package card

import "context"

// Repository queries cards by their several non-unique secondary identifier
// fields. Each finder returns (nil, nil) when nothing matches; lookups are
// limit-1, first match wins.
type Repository interface {
	Create(ctx context.Context, c *Card) error
	Update(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id string) (*Card, error)

	FindByEmail(ctx context.Context, email string) (*Card, error)
	FindByUserID(ctx context.Context, userID string) (*Card, error)
	FindByAnonymousID(ctx context.Context, anonymousID string) (*Card, error)
	FindByFullID(ctx context.Context, fullID string) (*Card, error)
	// FindByNumericKey resolves a legacy datastore-style integer key.
	FindByNumericKey(ctx context.Context, key string) (*Card, error)
}
