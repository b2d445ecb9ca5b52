package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a storefront customer.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `gorm:"uniqueIndex;not null"`
	Name           string
	Phone          *string
	DocTypeID      *uuid.UUID `gorm:"type:uuid"`
	DocumentNumber *string
	CreatedAt      time.Time
}

// AdminUser is a back-office operator authenticated via bearer token.
// Role: "admin" | "editor"
type AdminUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'admin'"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DocType is a fiscal document type (DNI, CUIT, ...). CRMDocTypeID maps it to
// the external sales system's integer id.
type DocType struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Code         string    `gorm:"uniqueIndex;not null"` // "DNI" | "CUIT" | ...
	CRMDocTypeID *int      `gorm:"column:crm_doc_type_id"`
}
