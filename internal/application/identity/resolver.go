// Package identity resolves a raw incoming identifier string to exactly one
// card.
package identity

import (
	"context"
	"fmt"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

// Resolver classifies an identifier once and dispatches a targeted query per
// kind. Every query is limit-1, first match wins; there is no uniqueness
// check on secondary fields, so a duplicate email or user id silently
// resolves to whichever row sorts first. Known risk, kept as-is.
type Resolver struct {
	cards  card.Repository
	logger logger.Interface
}

func NewResolver(cards card.Repository, logger logger.Interface) *Resolver {
	return &Resolver{
		cards:  cards,
		logger: logger,
	}
}

// Resolve returns the card matching raw, or errors.ErrIdentityNotFound when
// every strategy for the identifier's kind misses.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*card.Card, error) {
	ident := card.ClassifyIdentifier(raw)

	c, err := r.resolveIdentifier(ctx, ident)
	if err != nil {
		return nil, err
	}
	if c == nil {
		r.logger.Debugw("identifier did not resolve",
			"kind", ident.Kind.String(),
		)
		return nil, errors.ErrIdentityNotFound
	}

	return c, nil
}

func (r *Resolver) resolveIdentifier(ctx context.Context, ident card.Identifier) (*card.Card, error) {
	c, err := r.resolvePrimary(ctx, ident)
	if err != nil || c != nil {
		return c, err
	}

	// A miss on a separator-carrying value retries on the trailing segment
	// re-classified. Trailing contains no separator, so this recurses at
	// most once.
	if ident.Trailing != "" && ident.Trailing != ident.Value {
		return r.resolveIdentifier(ctx, card.ClassifyIdentifier(ident.Trailing))
	}

	return nil, nil
}

func (r *Resolver) resolvePrimary(ctx context.Context, ident card.Identifier) (*card.Card, error) {
	switch ident.Kind {
	case card.KindEmail:
		// Email-shaped identifiers match on email only; a coincidental
		// user-id match elsewhere must not win.
		c, err := r.cards.FindByEmail(ctx, ident.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to query card by email: %w", err)
		}
		return c, nil

	case card.KindNumericKey:
		c, err := r.cards.FindByNumericKey(ctx, ident.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to query card by numeric key: %w", err)
		}
		return c, nil

	default:
		// Composite values may themselves be stored ids; they run the
		// opaque chain on the full string before the trailing retry.
		return r.resolveOpaque(ctx, ident.Value)
	}
}

// resolveOpaque runs the ordered equality chain for shapeless identifiers:
// userId, then anonymousId, then fullId.
func (r *Resolver) resolveOpaque(ctx context.Context, value string) (*card.Card, error) {
	c, err := r.cards.FindByUserID(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query card by user id: %w", err)
	}
	if c != nil {
		return c, nil
	}

	c, err = r.cards.FindByAnonymousID(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query card by anonymous id: %w", err)
	}
	if c != nil {
		return c, nil
	}

	c, err = r.cards.FindByFullID(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query card by full id: %w", err)
	}
	return c, nil
}
