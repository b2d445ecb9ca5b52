package repository

import (
	"context"
	"time"

	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceComponents are the two SQL aggregates the available balance derives
// from: all debits unconditionally plus only the non-expired credits.
type BalanceComponents struct {
	Debits       decimal.Decimal
	ValidCredits decimal.Decimal
}

// WalletRepository defines data access for wallets and their append-only
// movement ledger. Movements are never updated or deleted.
type WalletRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Wallet, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error

	CreateMovement(ctx context.Context, m *model.WalletMovement) error
	CreateMovementTx(tx *gorm.DB, m *model.WalletMovement) error
	ListMovements(ctx context.Context, walletID uuid.UUID) ([]model.WalletMovement, error)

	// Balance components are computed fresh at every call — expiration is a
	// function of asOf, not of storage.
	BalanceComponents(ctx context.Context, walletID uuid.UUID, asOf time.Time) (BalanceComponents, error)
	// ExpiringCredits returns credits expiring in (now, until], ordered by
	// expires_at ascending.
	ExpiringCredits(ctx context.Context, walletID uuid.UUID, now, until time.Time) ([]model.WalletMovement, error)

	DB() *gorm.DB
}

type walletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) WalletRepository { return &walletRepository{db: db} }

func (r *walletRepository) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	w = model.Wallet{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return r.db.WithContext(ctx).Model(&model.Wallet{}).Where("id = ?", id).
		Update("is_blocked", blocked).Error
}

func (r *walletRepository) CreateMovement(ctx context.Context, m *model.WalletMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *walletRepository) CreateMovementTx(tx *gorm.DB, m *model.WalletMovement) error {
	return tx.Create(m).Error
}

func (r *walletRepository) ListMovements(ctx context.Context, walletID uuid.UUID) ([]model.WalletMovement, error) {
	var list []model.WalletMovement
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (r *walletRepository) BalanceComponents(ctx context.Context, walletID uuid.UUID, asOf time.Time) (BalanceComponents, error) {
	var comp BalanceComponents
	var debits, credits decimal.NullDecimal

	err := r.db.WithContext(ctx).Model(&model.WalletMovement{}).
		Where("wallet_id = ? AND amount < 0", walletID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&debits).Error
	if err != nil {
		return comp, err
	}

	err = r.db.WithContext(ctx).Model(&model.WalletMovement{}).
		Where("wallet_id = ? AND amount > 0 AND (expires_at IS NULL OR expires_at > ?)", walletID, asOf).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&credits).Error
	if err != nil {
		return comp, err
	}

	comp.Debits = debits.Decimal
	comp.ValidCredits = credits.Decimal
	return comp, nil
}

func (r *walletRepository) ExpiringCredits(ctx context.Context, walletID uuid.UUID, now, until time.Time) ([]model.WalletMovement, error) {
	var list []model.WalletMovement
	err := r.db.WithContext(ctx).
		Where("wallet_id = ? AND amount > 0 AND expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?",
			walletID, now, until).
		Order("expires_at asc").
		Find(&list).Error
	return list, err
}

func (r *walletRepository) DB() *gorm.DB { return r.db }
