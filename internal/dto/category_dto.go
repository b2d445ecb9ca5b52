package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=255"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"   validate:"omitempty,uuid"`
	Order       int     `json:"order"       validate:"min=0"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=255"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"   validate:"omitempty,uuid"`
	Order       *int    `json:"order"       validate:"omitempty,min=0"`
}

type CreateCategoryOptionRequest struct {
	Value    string `json:"value"    validate:"required,min=1,max=255"`
	Position int    `json:"position" validate:"min=0"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoryOptionResponse struct {
	ID       uuid.UUID `json:"id"`
	Value    string    `json:"value"`
	Position int       `json:"position"`
}

type CategoryResponse struct {
	ID          uuid.UUID                `json:"id"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description,omitempty"`
	ParentID    *uuid.UUID               `json:"parent_id,omitempty"`
	Order       int                      `json:"order"`
	Options     []CategoryOptionResponse `json:"options,omitempty"`
}

// CategoryTreeNode is one node of a resolved subtree: the category plus all
// of its recursively collected descendants.
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}
