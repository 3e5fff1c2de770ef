// Package card models the loyalty-card state for one customer at one tenant.
package card

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Display carries the customer-visible pass fields. Stored as a JSON column;
// the pass builder renders these verbatim.
type Display struct {
	Name         string  `json:"name"`
	Balance      float64 `json:"balance"`
	StampCount   int     `json:"stamp_count"`
	DiscountTier string  `json:"discount_tier"`
}

type Card struct {
	ID             string
	UserID         string
	AnonymousID    string
	Email          string
	FullID         string
	// NumericKey is the legacy datastore integer key, kept for cards
	// migrated from the old system.
	NumericKey     string
	TenantID       string
	Display        Display
	LastModifiedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewCard(tenantID, email string, display Display) (*Card, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	now := time.Now().UTC()
	return &Card{
		ID:             uuid.NewString(),
		Email:          email,
		TenantID:       tenantID,
		Display:        display,
		LastModifiedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SerialNumber returns the identifier the device protocol uses for this
// card's pass. Historically a composite id; currently the email.
func (c *Card) SerialNumber() string {
	return c.Email
}

// UpdateDisplay replaces the customer-visible fields and bumps the
// modification timestamp the polling endpoint compares against.
func (c *Card) UpdateDisplay(display Display) {
	c.Display = display
	now := time.Now().UTC()
	c.LastModifiedAt = now
	c.UpdatedAt = now
}

// ModifiedAfter reports whether the card changed strictly after t.
func (c *Card) ModifiedAfter(t time.Time) bool {
	return c.LastModifiedAt.After(t)
}
