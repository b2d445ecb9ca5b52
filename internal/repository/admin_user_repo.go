package repository

import (
	"context"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUserRepository defines data access for back-office operators.
type AdminUserRepository interface {
	Create(ctx context.Context, u *model.AdminUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	List(ctx context.Context) ([]model.AdminUser, error)
	Update(ctx context.Context, u *model.AdminUser) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type adminUserRepository struct{ db *gorm.DB }

func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(ctx context.Context, u *model.AdminUser) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *adminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	var u model.AdminUser
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var u model.AdminUser
	err := r.db.WithContext(ctx).Where("lower(email) = lower(?) AND is_active = true", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *adminUserRepository) List(ctx context.Context) ([]model.AdminUser, error) {
	var list []model.AdminUser
	err := r.db.WithContext(ctx).Order("email asc").Find(&list).Error
	return list, err
}

func (r *adminUserRepository) Update(ctx context.Context, u *model.AdminUser) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *adminUserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.AdminUser{}).Where("id = ?", id).
		Update("is_active", false).Error
}
