package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the catalog tree. A category with ParentID set is a
// subcategory. The tree is kept acyclic at write time (see CatalogService);
// observed depth in production is two levels (category → subcategory).
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Order       int        `gorm:"not null;default:0"`
	CreatedAt   time.Time

	Parent  *Category        `gorm:"foreignKey:ParentID"`
	Options []CategoryOption `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// CategoryOption is a selectable value within a subcategory (e.g. a firmness
// level). Product↔subcategory links may be tagged with one of these.
type CategoryOption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Value      string    `gorm:"not null"`
	Position   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
}
