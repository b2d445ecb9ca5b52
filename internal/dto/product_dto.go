package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=255"`
	Description *string `json:"description"`
	SKU         *string `json:"sku"         validate:"omitempty,max=100"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=255"`
	Description *string `json:"description"`
	SKU         *string `json:"sku"         validate:"omitempty,max=100"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

type CreateVariantRequest struct {
	Name       string            `json:"variant_name" validate:"required,min=1,max=255"`
	Attributes map[string]string `json:"attributes"`
}

type CreateVariantOptionRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=255"`
	Stock int    `json:"stock" validate:"min=0"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// SubcategoryAssignment is one requested product↔subcategory↔option link.
type SubcategoryAssignment struct {
	SubcategoryID    string  `json:"subcategory_id"     validate:"required,uuid"`
	CategoryOptionID *string `json:"category_option_id" validate:"omitempty,uuid"`
}

type AssignSubcategoriesRequest struct {
	// Replace clears links not present in Assignments; false only adds.
	Replace     bool                    `json:"replace"`
	Assignments []SubcategoryAssignment `json:"assignments" validate:"required,dive"`
}

type ProductFilter struct {
	Name       string
	CategoryID string
	Active     string // "false" | "all" | default: active only
	Page       int
	Limit      int
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type VariantOptionResponse struct {
	ID    uuid.UUID        `json:"id"`
	Name  string           `json:"name"`
	Stock int              `json:"stock"`
	Price *decimal.Decimal `json:"price,omitempty"` // resolved for a locality when requested
}

type VariantResponse struct {
	ID         uuid.UUID               `json:"id"`
	Name       string                  `json:"variant_name"`
	Attributes map[string]string       `json:"attributes,omitempty"`
	Options    []VariantOptionResponse `json:"options"`
}

type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	SKU         *string           `json:"sku,omitempty"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	IsActive    bool              `json:"is_active"`
	MainImage   *string           `json:"main_image,omitempty"`
	Variants    []VariantResponse `json:"variants,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type SubcategoryLinkResponse struct {
	SubcategoryID    uuid.UUID  `json:"subcategory_id"`
	CategoryOptionID *uuid.UUID `json:"category_option_id,omitempty"`
}
