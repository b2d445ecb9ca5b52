package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a customer's store-credit account. The balance is never stored:
// it is derived at read time from the movement ledger, because credit
// expiration is a function of the query time, not of storage.
type Wallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	IsBlocked bool      `gorm:"not null;default:false"`
	UpdatedAt time.Time
}

// Wallet movement types. The sign of Amount is authoritative (positive =
// credit, negative = debit); Type is a human-facing label.
const (
	MovementManualCredit = "manual_credit"
	MovementManualDebit  = "manual_debit"
	MovementCashback     = "cashback"
	MovementRefund       = "refund"
	MovementOrderPayment = "order_payment"
)

// WalletMovement is one immutable entry of the append-only ledger.
// Corrections are made via new offsetting movements, never by editing or
// deleting. ExpiresAt is only meaningful for credits; an expired credit is
// not deleted, just excluded from balance computation once expires_at <= now.
type WalletMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WalletID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        string          `gorm:"type:varchar(50);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description *string
	OrderID     *uuid.UUID `gorm:"type:uuid"`
	ExpiresAt   *time.Time `gorm:"index"`
	CreatedAt   time.Time
}
