package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order estados.
const (
	OrderPending  = "pending"
	OrderPaid     = "paid"
	OrderRejected = "rejected"
)

// Order is a checkout result. PreferenceID references the payment-gateway
// preference; the gateway webhook resolves orders by ID (external reference).
type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LocalityID    uuid.UUID `gorm:"type:uuid;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod string    `gorm:"type:varchar(30);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	WalletAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PreferenceID  *string
	PaidAt        *time.Time
	CreatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem freezes the resolved price of one variant option at checkout time.
type OrderItem struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID                uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductVariantOptionID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity               int       `gorm:"not null"`
	UnitPrice              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal               decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// Cart marks a user's first cart interaction. Created once per user and
// never re-created; cascade-deleted with the user.
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time
}
