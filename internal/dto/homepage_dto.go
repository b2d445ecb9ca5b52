package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type SetHomepageSlotRequest struct {
	Section   string  `json:"section"    validate:"required,oneof=featured discounts mattresses complete_purchase"`
	Position  int     `json:"position"   validate:"min=0"`
	ProductID *string `json:"product_id" validate:"omitempty,uuid"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type HomepageSlotResponse struct {
	ID        uuid.UUID        `json:"id"`
	Section   string           `json:"section"`
	Position  int              `json:"position"`
	ProductID *uuid.UUID       `json:"product_id,omitempty"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// HomepageResponse groups slots by section, positions ascending.
type HomepageResponse struct {
	Sections map[string][]HomepageSlotResponse `json:"sections"`
}
