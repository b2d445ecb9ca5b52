package repository

import (
	"context"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines data access for the category tree and its options.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// ListAll returns every category; the service builds the tree in memory
	// (arena indexed by id) instead of issuing recursive queries.
	ListAll(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateOption(ctx context.Context, o *model.CategoryOption) error
	FindOptionByID(ctx context.Context, id uuid.UUID) (*model.CategoryOption, error)
	ListOptions(ctx context.Context, categoryID uuid.UUID) ([]model.CategoryOption, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Preload("Options").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).Order(`"order" asc, name asc`).Find(&list).Error
	return list, err
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) CreateOption(ctx context.Context, o *model.CategoryOption) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *categoryRepository) FindOptionByID(ctx context.Context, id uuid.UUID) (*model.CategoryOption, error) {
	var o model.CategoryOption
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *categoryRepository) ListOptions(ctx context.Context, categoryID uuid.UUID) ([]model.CategoryOption, error) {
	var list []model.CategoryOption
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("position asc").Find(&list).Error
	return list, err
}

func (r *categoryRepository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CategoryOption{}, "id = ?", id).Error
}
