package repository

import (
	"context"
	"errors"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRepository defines data access for catalogs, locality↔catalog links
// and product prices.
type PricingRepository interface {
	CreateCatalog(ctx context.Context, c *model.Catalog) error
	FindCatalogByID(ctx context.Context, id uuid.UUID) (*model.Catalog, error)
	FindCatalogByName(ctx context.Context, name string) (*model.Catalog, error)
	ListCatalogs(ctx context.Context) ([]model.Catalog, error)
	UpdateCatalog(ctx context.Context, c *model.Catalog) error
	// DeleteCatalog removes the catalog; locality links and prices go with it
	// (FK ON DELETE CASCADE).
	DeleteCatalog(ctx context.Context, id uuid.UUID) error

	LinkLocality(ctx context.Context, link *model.LocalityCatalog) error
	UnlinkLocality(ctx context.Context, catalogID, localityID uuid.UUID) error
	ListLocalityLinks(ctx context.Context, catalogID uuid.UUID) ([]model.LocalityCatalog, error)
	// CatalogIDsByLocality returns every catalog the locality belongs to.
	CatalogIDsByLocality(ctx context.Context, localityID uuid.UUID) ([]uuid.UUID, error)

	UpsertPrice(ctx context.Context, p *model.ProductPrice) error
	// PricesByOptionAndCatalogs returns catalog-keyed prices for the option
	// restricted to catalogIDs, ordered by id ascending so the caller's
	// tie-break (lowest id wins) is a plain first-element pick.
	PricesByOptionAndCatalogs(ctx context.Context, optionID uuid.UUID, catalogIDs []uuid.UUID) ([]model.ProductPrice, error)
	// LegacyLocalityPrice looks up a pre-migration price keyed directly by
	// locality. Returns gorm.ErrRecordNotFound when absent.
	LegacyLocalityPrice(ctx context.Context, optionID, localityID uuid.UUID) (*model.ProductPrice, error)
	ListPricesByOption(ctx context.Context, optionID uuid.UUID) ([]model.ProductPrice, error)
	DeletePrice(ctx context.Context, id uuid.UUID) error
}

type pricingRepository struct{ db *gorm.DB }

func NewPricingRepository(db *gorm.DB) PricingRepository { return &pricingRepository{db: db} }

func (r *pricingRepository) CreateCatalog(ctx context.Context, c *model.Catalog) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *pricingRepository) FindCatalogByID(ctx context.Context, id uuid.UUID) (*model.Catalog, error) {
	var c model.Catalog
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pricingRepository) FindCatalogByName(ctx context.Context, name string) (*model.Catalog, error) {
	var c model.Catalog
	err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pricingRepository) ListCatalogs(ctx context.Context) ([]model.Catalog, error) {
	var list []model.Catalog
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *pricingRepository) UpdateCatalog(ctx context.Context, c *model.Catalog) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *pricingRepository) DeleteCatalog(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Catalog{}, "id = ?", id).Error
}

func (r *pricingRepository) LinkLocality(ctx context.Context, link *model.LocalityCatalog) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *pricingRepository) UnlinkLocality(ctx context.Context, catalogID, localityID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("catalog_id = ? AND locality_id = ?", catalogID, localityID).
		Delete(&model.LocalityCatalog{}).Error
}

func (r *pricingRepository) ListLocalityLinks(ctx context.Context, catalogID uuid.UUID) ([]model.LocalityCatalog, error) {
	var links []model.LocalityCatalog
	err := r.db.WithContext(ctx).Where("catalog_id = ?", catalogID).Find(&links).Error
	return links, err
}

func (r *pricingRepository) CatalogIDsByLocality(ctx context.Context, localityID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.LocalityCatalog{}).
		Where("locality_id = ?", localityID).
		Pluck("catalog_id", &ids).Error
	return ids, err
}

func (r *pricingRepository) UpsertPrice(ctx context.Context, p *model.ProductPrice) error {
	// One price per (option, catalog) intended but not DB-enforced on
	// historical data; overwrite an existing row instead of stacking a
	// duplicate.
	if p.CatalogID != nil {
		var existing model.ProductPrice
		err := r.db.WithContext(ctx).
			Where("product_variant_option_id = ? AND catalog_id = ?", p.ProductVariantOptionID, *p.CatalogID).
			Order("id asc").First(&existing).Error
		switch {
		case err == nil:
			return r.db.WithContext(ctx).Model(&existing).Update("price", p.Price).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			// A transient lookup failure must not fall through to Create, or
			// the (option, catalog) pair ends up with a duplicate row.
			return err
		}
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pricingRepository) PricesByOptionAndCatalogs(ctx context.Context, optionID uuid.UUID, catalogIDs []uuid.UUID) ([]model.ProductPrice, error) {
	if len(catalogIDs) == 0 {
		return nil, nil
	}
	var prices []model.ProductPrice
	err := r.db.WithContext(ctx).
		Where("product_variant_option_id = ? AND catalog_id IN ?", optionID, catalogIDs).
		Order("id asc").
		Find(&prices).Error
	return prices, err
}

func (r *pricingRepository) LegacyLocalityPrice(ctx context.Context, optionID, localityID uuid.UUID) (*model.ProductPrice, error) {
	var p model.ProductPrice
	err := r.db.WithContext(ctx).
		Where("product_variant_option_id = ? AND locality_id = ?", optionID, localityID).
		Order("id asc").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pricingRepository) ListPricesByOption(ctx context.Context, optionID uuid.UUID) ([]model.ProductPrice, error) {
	var prices []model.ProductPrice
	err := r.db.WithContext(ctx).
		Where("product_variant_option_id = ?", optionID).
		Order("id asc").
		Find(&prices).Error
	return prices, err
}

func (r *pricingRepository) DeletePrice(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductPrice{}, "id = ?", id).Error
}
