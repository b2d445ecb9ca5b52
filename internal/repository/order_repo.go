package repository

import (
	"context"
	"time"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines data access for orders and carts.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	SetPreferenceID(ctx context.Context, id uuid.UUID, preferenceID string) error
	// MarkPaid transitions pending → paid exactly once; returns rows affected
	// so the webhook can distinguish a fresh transition from a replay.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error)
	MarkRejected(ctx context.Context, id uuid.UUID) error

	// GetOrCreateCart returns the user's cart, creating it only on first
	// interaction.
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	DB() *gorm.DB
}

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

func (r *orderRepository) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Order("created_at desc").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) SetPreferenceID(ctx context.Context, id uuid.UUID, preferenceID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).
		Update("preference_id", preferenceID).Error
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderPending).
		Updates(map[string]interface{}{"status": model.OrderPaid, "paid_at": paidAt})
	return res.RowsAffected, res.Error
}

func (r *orderRepository) MarkRejected(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderPending).
		Update("status", model.OrderRejected).Error
}

func (r *orderRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	cart = model.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *orderRepository) DB() *gorm.DB { return r.db }
