package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog is a named grouping of localities used as a pricing tier
// (e.g. "Cordoba capital"). Deleting a catalog cascades to its locality
// links and prices — callers must treat the resulting absence of a price
// as PriceNotFound, never as zero.
type Catalog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	LocalityLinks []LocalityCatalog `gorm:"foreignKey:CatalogID;constraint:OnDelete:CASCADE"`
	Prices        []ProductPrice    `gorm:"foreignKey:CatalogID;constraint:OnDelete:CASCADE"`
}

// LocalityCatalog is the many-to-many join between localities and catalogs.
// A locality may belong to more than one catalog; the price resolver
// tie-breaks deterministically when that produces multiple candidate prices.
type LocalityCatalog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocalityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_locality_catalog"`
	CatalogID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_locality_catalog"`
	CreatedAt  time.Time
}

func (LocalityCatalog) TableName() string { return "locality_catalogs" }

// ProductPrice prices one variant option under one catalog.
//
// LocalityID is the legacy pricing key from before the catalog migration.
// Migrated data may transiently carry either shape, so exactly one of
// CatalogID / LocalityID is expected to be set; the resolver prefers the
// catalog path and falls back to the locality path.
type ProductPrice struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductVariantOptionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CatalogID              *uuid.UUID `gorm:"type:uuid;index"`
	LocalityID             *uuid.UUID `gorm:"type:uuid;index"`
	Price                  decimal.Decimal `gorm:"type:decimal(10,2);not null;check:price >= 0"`
	CreatedAt              time.Time
}
