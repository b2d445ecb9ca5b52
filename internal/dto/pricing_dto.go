package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCatalogRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=255"`
	Description *string `json:"description"`
}

type UpdateCatalogRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=255"`
	Description *string `json:"description"`
}

type LinkLocalityRequest struct {
	LocalityID string `json:"locality_id" validate:"required,uuid"`
}

type SetPriceRequest struct {
	ProductVariantOptionID string          `json:"product_variant_option_id" validate:"required,uuid"`
	CatalogID              string          `json:"catalog_id"                validate:"required,uuid"`
	Price                  decimal.Decimal `json:"price"                     validate:"required"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CatalogResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Localities  []LocalityResponse `json:"localities,omitempty"`
}

type PriceResponse struct {
	ID                     uuid.UUID       `json:"id"`
	ProductVariantOptionID uuid.UUID       `json:"product_variant_option_id"`
	CatalogID              *uuid.UUID      `json:"catalog_id,omitempty"`
	LocalityID             *uuid.UUID      `json:"locality_id,omitempty"`
	Price                  decimal.Decimal `json:"price"`
}

// ResolvedPriceResponse is the storefront answer for "what does this option
// cost here".
type ResolvedPriceResponse struct {
	ProductVariantOptionID uuid.UUID       `json:"product_variant_option_id"`
	LocalityID             uuid.UUID       `json:"locality_id"`
	Price                  decimal.Decimal `json:"price"`
}
