package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SaleRetry estados.
const (
	SaleRetryPending   = "pending"
	SaleRetryDelivered = "delivered"
	SaleRetryFailed    = "failed"
)

// SaleRetry queues a CRM sale payload whose forward attempt failed.
// The retry cron re-attempts due rows with exponential backoff; rows that
// exhaust their attempts are marked failed and parked in the DLQ.
type SaleRetry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Payload     json.RawMessage `gorm:"type:jsonb;not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending'"`
	Attempts    int             `gorm:"not null;default:0"`
	LastError   *string
	NextRetryAt *time.Time `gorm:"index"`
	CreatedAt   time.Time
}

func (SaleRetry) TableName() string { return "sale_retries" }
