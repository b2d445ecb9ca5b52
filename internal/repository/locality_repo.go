package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocalityRepository defines data access for provinces and localities.
type LocalityRepository interface {
	CreateProvince(ctx context.Context, p *model.Province) error
	FindProvinceByID(ctx context.Context, id uuid.UUID) (*model.Province, error)
	ListProvinces(ctx context.Context) ([]model.Province, error)
	// DeleteProvince surfaces a ForeignKeyViolation when the province is still
	// referenced by a locality or address (FK ON DELETE RESTRICT).
	DeleteProvince(ctx context.Context, id uuid.UUID) error

	CreateLocality(ctx context.Context, l *model.Locality) error
	FindLocalityByID(ctx context.Context, id uuid.UUID) (*model.Locality, error)
	ListLocalities(ctx context.Context) ([]model.Locality, error)
	DeleteLocality(ctx context.Context, id uuid.UUID) error

	CreateAddress(ctx context.Context, a *model.Address) error
	ListAddressesByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
}

type localityRepository struct{ db *gorm.DB }

func NewLocalityRepository(db *gorm.DB) LocalityRepository { return &localityRepository{db: db} }

func (r *localityRepository) CreateProvince(ctx context.Context, p *model.Province) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *localityRepository) FindProvinceByID(ctx context.Context, id uuid.UUID) (*model.Province, error) {
	var p model.Province
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *localityRepository) ListProvinces(ctx context.Context) ([]model.Province, error) {
	var list []model.Province
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *localityRepository) DeleteProvince(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&model.Province{}, "id = ?", id).Error
	if err != nil && isForeignKeyViolation(err) {
		return apierror.ForeignKey("La provincia sigue referenciada por localidades o direcciones")
	}
	return err
}

func (r *localityRepository) CreateLocality(ctx context.Context, l *model.Locality) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *localityRepository) FindLocalityByID(ctx context.Context, id uuid.UUID) (*model.Locality, error) {
	var l model.Locality
	err := r.db.WithContext(ctx).Preload("Province").First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *localityRepository) ListLocalities(ctx context.Context) ([]model.Locality, error) {
	var list []model.Locality
	err := r.db.WithContext(ctx).Preload("Province").Order("name asc").Find(&list).Error
	return list, err
}

func (r *localityRepository) DeleteLocality(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Locality{}, "id = ?", id).Error
}

func (r *localityRepository) CreateAddress(ctx context.Context, a *model.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *localityRepository) ListAddressesByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	var list []model.Address
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}

// isForeignKeyViolation detects Postgres SQLSTATE 23503 through GORM's
// translated error or the raw driver message.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "23503") ||
		strings.Contains(err.Error(), "violates foreign key constraint")
}
