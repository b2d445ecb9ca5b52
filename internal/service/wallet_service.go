package service

import (
	"context"
	"time"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletService manages customer store credit over an append-only ledger.
// The balance is never stored; it is recomputed from movements on every read
// so that credit expiration takes effect at query time without any sweeper.
type WalletService interface {
	// RecordMovement appends a credit (amount > 0) or debit (amount < 0).
	// Credits may carry an expiration; without one the configured default is
	// applied. Debits never expire. The ledger is append-only: mistakes are
	// corrected with offsetting movements.
	RecordMovement(ctx context.Context, userID uuid.UUID, req dto.RecordMovementRequest) (dto.MovementResponse, error)

	// AvailableBalance is the sum of non-expired credits plus all debits as
	// of now. Debits always count, even when the credits they consumed have
	// since expired, so the result can be negative.
	AvailableBalance(ctx context.Context, userID uuid.UUID) (dto.BalanceResponse, error)

	// ExpiringCredits lists credits expiring within the next withinDays,
	// soonest first.
	ExpiringCredits(ctx context.Context, userID uuid.UUID, withinDays int) (dto.ExpiringCreditsResponse, error)

	ListMovements(ctx context.Context, userID uuid.UUID) ([]dto.MovementResponse, error)
	SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error
}

type walletService struct {
	repo repository.WalletRepository
	// Default expiration in days for credits created without an explicit
	// expires_at; 0 disables the default.
	defaultExpirationDays int

	now func() time.Time
}

// NewWalletService builds the service. defaultExpirationDays comes from
// configuration and is passed explicitly so each instance is self-contained.
func NewWalletService(repo repository.WalletRepository, defaultExpirationDays int) WalletService {
	return &walletService{
		repo:                  repo,
		defaultExpirationDays: defaultExpirationDays,
		now:                   time.Now,
	}
}

func mapMovement(m model.WalletMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		WalletID:    m.WalletID,
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		OrderID:     m.OrderID,
		ExpiresAt:   m.ExpiresAt,
		CreatedAt:   m.CreatedAt,
	}
}

func (s *walletService) RecordMovement(ctx context.Context, userID uuid.UUID, req dto.RecordMovementRequest) (dto.MovementResponse, error) {
	if req.Amount.IsZero() {
		return dto.MovementResponse{}, apierror.InvalidMovement("El monto no puede ser cero")
	}

	w, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return dto.MovementResponse{}, err
	}
	if w.IsBlocked {
		return dto.MovementResponse{}, apierror.Conflict("La billetera está bloqueada")
	}

	now := s.now()
	isCredit := req.Amount.IsPositive()

	var expiresAt *time.Time
	if isCredit {
		if req.ExpiresAt != nil {
			if !req.ExpiresAt.After(now) {
				return dto.MovementResponse{}, apierror.InvalidExpiration("La fecha de expiración ya pasó")
			}
			expiresAt = req.ExpiresAt
		} else if s.defaultExpirationDays > 0 {
			t := now.AddDate(0, 0, s.defaultExpirationDays)
			expiresAt = &t
		}
	} else if req.ExpiresAt != nil {
		return dto.MovementResponse{}, apierror.InvalidExpiration("Los débitos no expiran")
	}

	movType := req.Type
	if movType == "" {
		if isCredit {
			movType = model.MovementManualCredit
		} else {
			movType = model.MovementManualDebit
		}
	}

	m := &model.WalletMovement{
		WalletID:    w.ID,
		Type:        movType,
		Amount:      req.Amount,
		Description: req.Description,
		ExpiresAt:   expiresAt,
	}
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return dto.MovementResponse{}, err
	}
	return mapMovement(*m), nil
}

func (s *walletService) AvailableBalance(ctx context.Context, userID uuid.UUID) (dto.BalanceResponse, error) {
	w, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return dto.BalanceResponse{}, err
	}

	now := s.now()
	comp, err := s.repo.BalanceComponents(ctx, w.ID, now)
	if err != nil {
		return dto.BalanceResponse{}, err
	}

	// Debits come back negative, so the balance is a plain sum.
	return dto.BalanceResponse{
		WalletID:  w.ID,
		UserID:    w.UserID,
		Balance:   comp.ValidCredits.Add(comp.Debits),
		IsBlocked: w.IsBlocked,
		AsOf:      now,
	}, nil
}

func (s *walletService) ExpiringCredits(ctx context.Context, userID uuid.UUID, withinDays int) (dto.ExpiringCreditsResponse, error) {
	if withinDays <= 0 {
		return dto.ExpiringCreditsResponse{}, apierror.E(apierror.KindValidation, "El rango de días debe ser positivo")
	}

	w, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return dto.ExpiringCreditsResponse{}, err
	}

	now := s.now()
	list, err := s.repo.ExpiringCredits(ctx, w.ID, now, now.AddDate(0, 0, withinDays))
	if err != nil {
		return dto.ExpiringCreditsResponse{}, err
	}

	resp := dto.ExpiringCreditsResponse{
		WalletID:   w.ID,
		WithinDays: withinDays,
		Credits:    make([]dto.MovementResponse, 0, len(list)),
	}
	for _, m := range list {
		resp.Credits = append(resp.Credits, mapMovement(m))
	}
	return resp, nil
}

func (s *walletService) ListMovements(ctx context.Context, userID uuid.UUID) ([]dto.MovementResponse, error) {
	w, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListMovements(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		result = append(result, mapMovement(m))
	}
	return result, nil
}

func (s *walletService) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error {
	w, err := s.repo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.SetBlocked(ctx, w.ID, blocked)
}

// debitForOrder appends the wallet leg of an order payment inside the
// checkout transaction. amount must be positive; it is stored negated.
func debitForOrder(walletID, orderID uuid.UUID, amount decimal.Decimal) *model.WalletMovement {
	desc := "Pago de orden"
	return &model.WalletMovement{
		WalletID:    walletID,
		Type:        model.MovementOrderPayment,
		Amount:      amount.Neg(),
		Description: &desc,
		OrderID:     &orderID,
	}
}
