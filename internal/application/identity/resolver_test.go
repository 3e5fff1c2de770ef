package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

type mockCardRepository struct {
	findByEmailFunc       func(ctx context.Context, email string) (*card.Card, error)
	findByUserIDFunc      func(ctx context.Context, userID string) (*card.Card, error)
	findByAnonymousIDFunc func(ctx context.Context, anonymousID string) (*card.Card, error)
	findByFullIDFunc      func(ctx context.Context, fullID string) (*card.Card, error)
	findByNumericKeyFunc  func(ctx context.Context, key string) (*card.Card, error)
}

func (m *mockCardRepository) Create(ctx context.Context, c *card.Card) error { return nil }
func (m *mockCardRepository) Update(ctx context.Context, c *card.Card) error { return nil }
func (m *mockCardRepository) GetByID(ctx context.Context, id string) (*card.Card, error) {
	return nil, nil
}

func (m *mockCardRepository) FindByEmail(ctx context.Context, email string) (*card.Card, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockCardRepository) FindByUserID(ctx context.Context, userID string) (*card.Card, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockCardRepository) FindByAnonymousID(ctx context.Context, anonymousID string) (*card.Card, error) {
	if m.findByAnonymousIDFunc != nil {
		return m.findByAnonymousIDFunc(ctx, anonymousID)
	}
	return nil, nil
}

func (m *mockCardRepository) FindByFullID(ctx context.Context, fullID string) (*card.Card, error) {
	if m.findByFullIDFunc != nil {
		return m.findByFullIDFunc(ctx, fullID)
	}
	return nil, nil
}

func (m *mockCardRepository) FindByNumericKey(ctx context.Context, key string) (*card.Card, error) {
	if m.findByNumericKeyFunc != nil {
		return m.findByNumericKeyFunc(ctx, key)
	}
	return nil, nil
}

func TestResolver_EmailNeverFallsThroughToUserID(t *testing.T) {
	byEmail := &card.Card{ID: "card-email", Email: "alice@example.com"}
	byUserID := &card.Card{ID: "card-userid", UserID: "alice@example.com"}

	repo := &mockCardRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*card.Card, error) {
			assert.Equal(t, "alice@example.com", email)
			return byEmail, nil
		},
		findByUserIDFunc: func(ctx context.Context, userID string) (*card.Card, error) {
			return byUserID, nil
		},
	}

	resolver := NewResolver(repo, logger.NewLogger())

	got, err := resolver.Resolve(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "card-email", got.ID)
}

func TestResolver_EmailMissDoesNotProbeOtherFields(t *testing.T) {
	repo := &mockCardRepository{
		findByUserIDFunc: func(ctx context.Context, userID string) (*card.Card, error) {
			t.Fatal("user id strategy must not run for an email-shaped identifier")
			return nil, nil
		},
	}

	resolver := NewResolver(repo, logger.NewLogger())

	_, err := resolver.Resolve(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, errors.ErrIdentityNotFound)
}

func TestResolver_StripsLegacyPrefix(t *testing.T) {
	repo := &mockCardRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*card.Card, error) {
			assert.Equal(t, "bob@example.com", email)
			return &card.Card{ID: "card-bob"}, nil
		},
	}

	resolver := NewResolver(repo, logger.NewLogger())

	got, err := resolver.Resolve(context.Background(), "ID=Bob@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "card-bob", got.ID)
}

func TestResolver_OpaqueChainOrder(t *testing.T) {
	var calls []string
	repo := &mockCardRepository{
		findByUserIDFunc: func(ctx context.Context, userID string) (*card.Card, error) {
			calls = append(calls, "user_id")
			return nil, nil
		},
		findByAnonymousIDFunc: func(ctx context.Context, anonymousID string) (*card.Card, error) {
			calls = append(calls, "anonymous_id")
			return nil, nil
		},
		findByFullIDFunc: func(ctx context.Context, fullID string) (*card.Card, error) {
			calls = append(calls, "full_id")
			return &card.Card{ID: "card-full"}, nil
		},
	}

	resolver := NewResolver(repo, logger.NewLogger())

	got, err := resolver.Resolve(context.Background(), "abc123xy")
	require.NoError(t, err)
	assert.Equal(t, "card-full", got.ID)
	assert.Equal(t, []string{"user_id", "anonymous_id", "full_id"}, calls)
}

func TestResolver_CompositeRetriesTrailingSegment(t *testing.T) {
	var queried []string
	repo := &mockCardRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*card.Card, error) {
			queried = append(queried, email)
			if email == "carol@example.com" {
				return &card.Card{ID: "card-carol"}, nil
			}
			return nil, nil
		},
	}

	resolver := NewResolver(repo, logger.NewLogger())

	got, err := resolver.Resolve(context.Background(), "cafe42_carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, "card-carol", got.ID)
	assert.Equal(t, []string{"cafe42_carol@example.com", "carol@example.com"}, queried)
}

func TestResolver_NumericKeyLookup(t *testing.T) {
	repo := &mockCardRepository{
		findByNumericKeyFunc: func(ctx context.Context, key string) (*card.Card, error) {
			assert.Equal(t, "5629499534213120", key)
			return &card.Card{ID: "card-key"}, nil
		},
	}

	resolver := NewResolver(repo, logger.NewLogger())

	got, err := resolver.Resolve(context.Background(), "5629499534213120")
	require.NoError(t, err)
	assert.Equal(t, "card-key", got.ID)
}

func TestResolver_UnresolvedIsIdentityNotFound(t *testing.T) {
	resolver := NewResolver(&mockCardRepository{}, logger.NewLogger())

	_, err := resolver.Resolve(context.Background(), "no-such-id")
	assert.True(t, errors.IsIdentityNotFound(err))
}
