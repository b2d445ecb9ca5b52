package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog entry. Pricing and stock do NOT live here:
// they attach to ProductVariantOption, the concrete purchasable unit.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	SKU         *string    `gorm:"column:sku"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	IsActive    bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time

	Category *Category        `gorm:"foreignKey:CategoryID"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductVariant is a configuration axis of a product (size, combo, model).
// Owned exclusively by Product — cascade-deleted with it.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"column:variant_name;not null"`
	// Free-form attributes (size, combo, model, color, dimensions)
	Attributes map[string]string `gorm:"serializer:json"`

	Options []ProductVariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

// ProductVariantOption is the unit stock and pricing attach to: one concrete
// purchasable SKU-option of a variant (e.g. "Default", "2 plazas / Firme").
type ProductVariantOption struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID uuid.UUID `gorm:"type:uuid;column:product_variant_id;not null;index"`
	Name      string    `gorm:"not null"`
	Stock     int       `gorm:"not null;default:0;check:stock >= 0"`
	CreatedAt time.Time

	Prices []ProductPrice `gorm:"foreignKey:ProductVariantOptionID;constraint:OnDelete:CASCADE"`
}

func (ProductVariantOption) TableName() string { return "product_variant_options" }

// ProductSubcategory links a product to a subcategory, optionally tagged with
// a category option. The (product, subcategory, option) triple is unique; the
// same pair may repeat only under distinct option ids (or once with null).
type ProductSubcategory struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_product_subcategory_option"`
	SubcategoryID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_product_subcategory_option"`
	CategoryOptionID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_product_subcategory_option"`
	CreatedAt        time.Time
}

func (ProductSubcategory) TableName() string { return "product_subcategories" }

// ProductImage stores the public URL of an uploaded product image.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageURL  string    `gorm:"not null"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}
