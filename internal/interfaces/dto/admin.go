package dto

import (
	"time"

	"cardwallet/internal/domain/card"
	"cardwallet/internal/domain/certificate"
	"cardwallet/internal/domain/tenant"
)

type CardDisplayRequest struct {
	Name         string  `json:"name" validate:"required"`
	Balance      float64 `json:"balance" validate:"gte=0"`
	StampCount   int     `json:"stamp_count" validate:"gte=0"`
	DiscountTier string  `json:"discount_tier"`
}

type CreateCardRequest struct {
	TenantID    string             `json:"tenant_id" validate:"required,uuid"`
	Email       string             `json:"email" validate:"required,email"`
	UserID      string             `json:"user_id"`
	AnonymousID string             `json:"anonymous_id"`
	FullID      string             `json:"full_id"`
	NumericKey  string             `json:"numeric_key" validate:"omitempty,numeric"`
	Display     CardDisplayRequest `json:"display" validate:"required"`
}

type UpdateCardRequest struct {
	Display CardDisplayRequest `json:"display" validate:"required"`
}

type CardResponse struct {
	ID             string             `json:"id"`
	TenantID       string             `json:"tenant_id"`
	Email          string             `json:"email"`
	UserID         string             `json:"user_id,omitempty"`
	AnonymousID    string             `json:"anonymous_id,omitempty"`
	FullID         string             `json:"full_id,omitempty"`
	NumericKey     string             `json:"numeric_key,omitempty"`
	Display        CardDisplayRequest `json:"display"`
	LastModifiedAt time.Time          `json:"last_modified_at"`
	CreatedAt      time.Time          `json:"created_at"`
}

func NewCardResponse(c *card.Card) *CardResponse {
	return &CardResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Email:       c.Email,
		UserID:      c.UserID,
		AnonymousID: c.AnonymousID,
		FullID:      c.FullID,
		NumericKey:  c.NumericKey,
		Display: CardDisplayRequest{
			Name:         c.Display.Name,
			Balance:      c.Display.Balance,
			StampCount:   c.Display.StampCount,
			DiscountTier: c.Display.DiscountTier,
		},
		LastModifiedAt: c.LastModifiedAt,
		CreatedAt:      c.CreatedAt,
	}
}

type CreateTenantRequest struct {
	Name               string `json:"name" validate:"required"`
	PassTypeIdentifier string `json:"pass_type_identifier"`
}

type TenantResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	PassTypeIdentifier string    `json:"pass_type_identifier,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:                 t.ID,
		Name:               t.Name,
		PassTypeIdentifier: t.PassTypeIdentifier,
		CreatedAt:          t.CreatedAt,
	}
}

type ClaimCertificateRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
}

type CertificateRecordResponse struct {
	TenantKey          string `json:"tenant_key"`
	Rank               int    `json:"rank"`
	OwnerID            string `json:"owner_id,omitempty"`
	PassTypeIdentifier string `json:"pass_type_identifier,omitempty"`
}

func NewCertificateRecordResponse(r *certificate.Record) *CertificateRecordResponse {
	resp := &CertificateRecordResponse{
		TenantKey:          r.TenantKey,
		Rank:               r.Rank,
		PassTypeIdentifier: r.PassTypeIdentifier,
	}
	if r.OwnerID != nil {
		resp.OwnerID = *r.OwnerID
	}
	return resp
}
