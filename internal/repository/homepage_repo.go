package repository

import (
	"context"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HomepageRepository defines data access for the curated homepage grid.
type HomepageRepository interface {
	ListSlots(ctx context.Context) ([]model.HomepageDistribution, error)
	FindSlot(ctx context.Context, section string, position int) (*model.HomepageDistribution, error)
	CreateSlot(ctx context.Context, slot *model.HomepageDistribution) error
	UpdateSlotProduct(ctx context.Context, id uuid.UUID, productID *uuid.UUID) error
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

type homepageRepository struct{ db *gorm.DB }

func NewHomepageRepository(db *gorm.DB) HomepageRepository { return &homepageRepository{db: db} }

func (r *homepageRepository) ListSlots(ctx context.Context) ([]model.HomepageDistribution, error) {
	var slots []model.HomepageDistribution
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("section asc, position asc").
		Find(&slots).Error
	return slots, err
}

func (r *homepageRepository) FindSlot(ctx context.Context, section string, position int) (*model.HomepageDistribution, error) {
	var slot model.HomepageDistribution
	err := r.db.WithContext(ctx).
		Where("section = ? AND position = ?", section, position).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *homepageRepository) CreateSlot(ctx context.Context, slot *model.HomepageDistribution) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *homepageRepository) UpdateSlotProduct(ctx context.Context, id uuid.UUID, productID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.HomepageDistribution{}).
		Where("id = ?", id).
		Update("product_id", productID).Error
}

func (r *homepageRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.HomepageDistribution{}, "id = ?", id).Error
}
