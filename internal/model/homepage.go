package model

import (
	"time"

	"github.com/google/uuid"
)

// Homepage sections. Each section is a curated grid of product slots.
const (
	SectionFeatured         = "featured"
	SectionDiscounts        = "discounts"
	SectionMattresses       = "mattresses"
	SectionCompletePurchase = "complete_purchase"
)

// ValidSection reports whether s is a known homepage section.
func ValidSection(s string) bool {
	switch s {
	case SectionFeatured, SectionDiscounts, SectionMattresses, SectionCompletePurchase:
		return true
	}
	return false
}

// HomepageDistribution is one slot of the curated homepage grid.
// (section, position) is unique; ProductID is cleared (SET NULL) when the
// product is deleted, leaving an empty slot rather than a dangling one.
type HomepageDistribution struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Section   string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_homepage_section_position"`
	Position  int        `gorm:"not null;check:position >= 0;uniqueIndex:idx_homepage_section_position"`
	ProductID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
}

func (HomepageDistribution) TableName() string { return "homepage_product_distribution" }
