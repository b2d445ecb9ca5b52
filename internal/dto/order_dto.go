package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CheckoutItem struct {
	ProductVariantOptionID string `json:"product_variant_option_id" validate:"required,uuid"`
	Quantity               int    `json:"quantity"                  validate:"required,gt=0"`
}

type CheckoutRequest struct {
	UserID        string          `json:"user_id"        validate:"required,uuid"`
	LocalityID    string          `json:"locality_id"    validate:"required,uuid"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=mercadopago cash wallet"`
	WalletAmount  decimal.Decimal `json:"wallet_amount"`
	Items         []CheckoutItem  `json:"items"          validate:"required,min=1,dive"`
}

// PaymentNotification is the gateway webhook body. Fields beyond these are
// ignored; a payload missing the reference is acked and dropped per the
// gateway's retry contract.
type PaymentNotification struct {
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"` // approved | pending | rejected
	PaymentID         string `json:"payment_id"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductVariantOptionID uuid.UUID       `json:"product_variant_option_id"`
	Quantity               int             `json:"quantity"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	Subtotal               decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Total         decimal.Decimal     `json:"total"`
	WalletAmount  decimal.Decimal     `json:"wallet_amount"`
	PreferenceID  *string             `json:"preference_id,omitempty"`
	InitPoint     *string             `json:"init_point,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type OrderFilter struct {
	Status string
	UserID string
	Page   int
	Limit  int
}
