// Package cards implements the admin-facing card operations that feed the
// update-notification pipeline.
package cards

import (
	"context"
	"fmt"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/domain/tenant"
	"cardwallet/internal/infrastructure/pubsub"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

// CreateCardCommand carries the fields for a new card.
type CreateCardCommand struct {
	TenantID    string
	Email       string
	UserID      string
	AnonymousID string
	FullID      string
	NumericKey  string
	Display     card.Display
}

// Service persists cards and publishes a change event on every write. The
// event carries before/after images so the notification worker can debounce
// without re-reading the card.
type Service struct {
	cards   card.Repository
	tenants tenant.Repository
	events  pubsub.CardEventPublisher
	logger  logger.Interface
}

func NewService(cards card.Repository, tenants tenant.Repository, events pubsub.CardEventPublisher, logger logger.Interface) *Service {
	return &Service{
		cards:   cards,
		tenants: tenants,
		events:  events,
		logger:  logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCardCommand) (*card.Card, error) {
	t, err := s.tenants.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	c, err := card.NewCard(cmd.TenantID, cmd.Email, cmd.Display)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	c.UserID = cmd.UserID
	c.AnonymousID = cmd.AnonymousID
	c.FullID = cmd.FullID
	c.NumericKey = cmd.NumericKey

	if err := s.cards.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.publish(ctx, c, pubsub.CardImage{}, true)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*card.Card, error) {
	c, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("card not found")
	}
	return c, nil
}

// UpdateDisplay replaces the customer-visible fields, bumps lastModifiedAt
// and publishes the change. Publishing failure does not fail the write; the
// poll path picks the change up regardless.
func (s *Service) UpdateDisplay(ctx context.Context, id string, display card.Display) (*card.Card, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := imageOf(c)
	c.UpdateDisplay(display)

	if err := s.cards.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	s.publish(ctx, c, before, false)
	return c, nil
}

func (s *Service) publish(ctx context.Context, c *card.Card, before pubsub.CardImage, created bool) {
	event := pubsub.CardChangeEvent{
		CardID:       c.ID,
		TenantID:     c.TenantID,
		SerialNumber: c.SerialNumber(),
		Created:      created,
		Before:       before,
		After:        imageOf(c),
	}
	if err := s.events.PublishChange(ctx, event); err != nil {
		s.logger.Warnw("card change event not published",
			"card_id", c.ID,
			"error", err,
		)
	}
}

func imageOf(c *card.Card) pubsub.CardImage {
	return pubsub.CardImage{
		Name:         c.Display.Name,
		Email:        c.Email,
		Balance:      c.Display.Balance,
		StampCount:   c.Display.StampCount,
		DiscountTier: c.Display.DiscountTier,
	}
}
