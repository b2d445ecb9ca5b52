package repository

import (
	"context"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines data access for storefront customers and fiscal
// document types.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	FindDocTypeByID(ctx context.Context, id uuid.UUID) (*model.DocType, error)
	ListDocTypes(ctx context.Context) ([]model.DocType, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindDocTypeByID(ctx context.Context, id uuid.UUID) (*model.DocType, error) {
	var dt model.DocType
	err := r.db.WithContext(ctx).First(&dt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *userRepository) ListDocTypes(ctx context.Context) ([]model.DocType, error) {
	var list []model.DocType
	err := r.db.WithContext(ctx).Order("code asc").Find(&list).Error
	return list, err
}
