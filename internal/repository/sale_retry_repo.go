package repository

import (
	"context"
	"time"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRetryRepository defines data access for queued CRM sale forwards.
type SaleRetryRepository interface {
	Create(ctx context.Context, s *model.SaleRetry) error
	// ListDue returns pending rows whose next_retry_at has passed, oldest
	// first, capped at limit.
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.SaleRetry, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	// Reschedule bumps the attempt counter and sets the next retry time.
	Reschedule(ctx context.Context, id uuid.UUID, attempts int, nextRetryAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
}

type saleRetryRepository struct{ db *gorm.DB }

func NewSaleRetryRepository(db *gorm.DB) SaleRetryRepository {
	return &saleRetryRepository{db: db}
}

func (r *saleRetryRepository) Create(ctx context.Context, s *model.SaleRetry) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRetryRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.SaleRetry, error) {
	var list []model.SaleRetry
	err := r.db.WithContext(ctx).
		Where("status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)", model.SaleRetryPending, now).
		Order("created_at asc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *saleRetryRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.SaleRetry{}).Where("id = ?", id).
		Update("status", model.SaleRetryDelivered).Error
}

func (r *saleRetryRepository) Reschedule(ctx context.Context, id uuid.UUID, attempts int, nextRetryAt time.Time, lastError string) error {
	return r.db.WithContext(ctx).Model(&model.SaleRetry{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":      attempts,
			"next_retry_at": nextRetryAt,
			"last_error":    lastError,
		}).Error
}

func (r *saleRetryRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).Model(&model.SaleRetry{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.SaleRetryFailed,
			"last_error": lastError,
		}).Error
}
