package repository

import (
	"context"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines data access for products, variants, variant
// options and product↔subcategory links.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateVariant(ctx context.Context, v *model.ProductVariant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	CreateOption(ctx context.Context, o *model.ProductVariantOption) error
	FindOptionByID(ctx context.Context, id uuid.UUID) (*model.ProductVariantOption, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error

	// DecrementStockTx atomically decrements stock inside tx, guarded by a
	// stock >= qty predicate (compare-and-swap). Zero rows affected means the
	// option is out of stock or missing — caller maps that to
	// InsufficientStock.
	DecrementStockTx(tx *gorm.DB, optionID uuid.UUID, qty int) (int64, error)
	AdjustStock(ctx context.Context, optionID uuid.UUID, delta int) error

	ListSubcategoryLinks(ctx context.Context, productID uuid.UUID) ([]model.ProductSubcategory, error)
	FindSubcategoryLinkTx(tx *gorm.DB, productID, subcategoryID uuid.UUID, optionID *uuid.UUID) (*model.ProductSubcategory, error)
	CreateSubcategoryLinkTx(tx *gorm.DB, link *model.ProductSubcategory) error
	DeleteSubcategoryLinksTx(tx *gorm.DB, productID uuid.UUID, keep []uuid.UUID) error

	CreateImage(ctx context.Context, img *model.ProductImage) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Variants.Options").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("is_active = false")
	case "all":
		// no filter
	default:
		q = q.Where("is_active = true")
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Variants.Options").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepository) CreateVariant(ctx context.Context, v *model.ProductVariant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *productRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductVariant{}, "id = ?", id).Error
}

func (r *productRepository) CreateOption(ctx context.Context, o *model.ProductVariantOption) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *productRepository) FindOptionByID(ctx context.Context, id uuid.UUID) (*model.ProductVariantOption, error) {
	var o model.ProductVariantOption
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *productRepository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductVariantOption{}, "id = ?", id).Error
}

func (r *productRepository) DecrementStockTx(tx *gorm.DB, optionID uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.ProductVariantOption{}).
		Where("id = ? AND stock >= ?", optionID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *productRepository) AdjustStock(ctx context.Context, optionID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.ProductVariantOption{}).
		Where("id = ?", optionID).
		Update("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta)).Error
}

func (r *productRepository) ListSubcategoryLinks(ctx context.Context, productID uuid.UUID) ([]model.ProductSubcategory, error) {
	var links []model.ProductSubcategory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&links).Error
	return links, err
}

func (r *productRepository) FindSubcategoryLinkTx(tx *gorm.DB, productID, subcategoryID uuid.UUID, optionID *uuid.UUID) (*model.ProductSubcategory, error) {
	var link model.ProductSubcategory
	q := tx.Where("product_id = ? AND subcategory_id = ?", productID, subcategoryID)
	if optionID == nil {
		q = q.Where("category_option_id IS NULL")
	} else {
		q = q.Where("category_option_id = ?", *optionID)
	}
	if err := q.First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *productRepository) CreateSubcategoryLinkTx(tx *gorm.DB, link *model.ProductSubcategory) error {
	return tx.Create(link).Error
}

func (r *productRepository) DeleteSubcategoryLinksTx(tx *gorm.DB, productID uuid.UUID, keep []uuid.UUID) error {
	q := tx.Where("product_id = ?", productID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(&model.ProductSubcategory{}).Error
}

func (r *productRepository) CreateImage(ctx context.Context, img *model.ProductImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *productRepository) DB() *gorm.DB { return r.db }
