package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// RecordMovementRequest records a manual credit (amount > 0) or debit
// (amount < 0). ExpiresAt only applies to credits; when omitted the
// configured default expiration is used.
type RecordMovementRequest struct {
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Type        string          `json:"type"        validate:"omitempty,max=50"`
	Description *string         `json:"description"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type MovementResponse struct {
	ID          uuid.UUID       `json:"id"`
	WalletID    uuid.UUID       `json:"wallet_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type BalanceResponse struct {
	WalletID  uuid.UUID       `json:"wallet_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	IsBlocked bool            `json:"is_blocked"`
	AsOf      time.Time       `json:"as_of"`
}

type ExpiringCreditsResponse struct {
	WalletID   uuid.UUID          `json:"wallet_id"`
	WithinDays int                `json:"within_days"`
	Credits    []MovementResponse `json:"credits"`
}
