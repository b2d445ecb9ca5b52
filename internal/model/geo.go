package model

import (
	"time"

	"github.com/google/uuid"
)

// Province is referenced by localities and shipping addresses with ON DELETE
// RESTRICT: it cannot be deleted while referenced.
type Province struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Code        string    `gorm:"not null"`
	CountryCode string    `gorm:"not null;default:'AR'"`
}

// Locality is the city/region a customer selects; it determines price and
// availability through its catalog memberships.
type Locality struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	ProvinceID uuid.UUID `gorm:"type:uuid;not null;index"`

	Province *Province `gorm:"foreignKey:ProvinceID;constraint:OnDelete:RESTRICT"`
}

func (Locality) TableName() string { return "localities" }

// Address is a customer shipping address.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Street     string    `gorm:"not null"`
	Number     string
	City       string
	PostalCode string
	ProvinceID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time

	Province *Province `gorm:"foreignKey:ProvinceID;constraint:OnDelete:RESTRICT"`
}

func (Address) TableName() string { return "addresses" }
