package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CRMClient forwards sale documents to the external sales system. The infra
// implementation wraps the HTTP client in a circuit breaker.
type CRMClient interface {
	SendSale(ctx context.Context, payload dto.CRMSalePayload) error
}

// CRMService builds, validates and forwards sale documents for paid orders.
// A forward that fails after validation is parked in sale_retries for the
// retry cron; it never blocks the payment flow.
type CRMService interface {
	// ForwardSale builds the sale document for a paid order and sends it.
	// Transport failures are queued for retry and reported as nil.
	ForwardSale(ctx context.Context, orderID uuid.UUID) error
	// ValidateSale applies the document rules: item totals must equal
	// payment totals, CUIT sales require an email, DNI numbers are numeric.
	ValidateSale(payload dto.CRMSalePayload) error
	// Deliver sends an already-validated payload. Used by the retry cron.
	Deliver(ctx context.Context, payload dto.CRMSalePayload) error
}

type crmService struct {
	client      CRMClient
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	retryRepo   repository.SaleRetryRepository
}

func NewCRMService(
	client CRMClient,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	retryRepo repository.SaleRetryRepository,
) CRMService {
	return &crmService{
		client:      client,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		retryRepo:   retryRepo,
	}
}

func (s *crmService) ForwardSale(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Orden no encontrada")
		}
		return err
	}
	if order.Status != model.OrderPaid {
		return apierror.Conflict("Solo se informan ventas de órdenes pagadas")
	}

	payload, err := s.buildPayload(ctx, order)
	if err != nil {
		return err
	}
	if err := s.ValidateSale(payload); err != nil {
		// A document that fails validation will fail on every retry;
		// surface it instead of queueing.
		return err
	}

	if err := s.client.SendSale(ctx, payload); err != nil {
		log.Warn().Err(err).
			Str("order_id", orderID.String()).
			Msg("envío de venta al CRM falló, encolando reintento")
		return s.queueRetry(ctx, orderID, payload)
	}
	return nil
}

func (s *crmService) buildPayload(ctx context.Context, order *model.Order) (dto.CRMSalePayload, error) {
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CRMSalePayload{}, apierror.NotFound("Cliente no encontrado")
		}
		return dto.CRMSalePayload{}, err
	}

	docTypeCode := "DNI"
	if user.DocTypeID != nil {
		dt, err := s.userRepo.FindDocTypeByID(ctx, *user.DocTypeID)
		if err == nil {
			docTypeCode = dt.Code
		}
	}
	docNumber := ""
	if user.DocumentNumber != nil {
		docNumber = *user.DocumentNumber
	}

	payload := dto.CRMSalePayload{
		OrderID:        order.ID.String(),
		CustomerName:   user.Name,
		CustomerEmail:  user.Email,
		DocTypeCode:    docTypeCode,
		DocumentNumber: docNumber,
	}

	for _, item := range order.Items {
		desc := item.ProductVariantOptionID.String()
		if opt, err := s.productRepo.FindOptionByID(ctx, item.ProductVariantOptionID); err == nil {
			desc = opt.Name
		}
		payload.Items = append(payload.Items, dto.CRMSaleItem{
			Description: desc,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Subtotal,
		})
	}

	if order.WalletAmount.IsPositive() {
		payload.Payments = append(payload.Payments, dto.CRMSalePayment{
			Method: "wallet",
			Total:  order.WalletAmount,
		})
	}
	rest := order.Total.Sub(order.WalletAmount)
	if rest.IsPositive() {
		payload.Payments = append(payload.Payments, dto.CRMSalePayment{
			Method: order.PaymentMethod,
			Total:  rest,
		})
	}

	return payload, nil
}

func (s *crmService) ValidateSale(payload dto.CRMSalePayload) error {
	if len(payload.Items) == 0 {
		return apierror.E(apierror.KindValidation, "La venta no tiene items")
	}

	itemTotal := decimal.Zero
	for _, item := range payload.Items {
		itemTotal = itemTotal.Add(item.Total)
	}
	paymentTotal := decimal.Zero
	for _, p := range payload.Payments {
		paymentTotal = paymentTotal.Add(p.Total)
	}
	if !itemTotal.Equal(paymentTotal) {
		return apierror.E(apierror.KindValidation,
			fmt.Sprintf("El total de items (%s) no coincide con el de pagos (%s)", itemTotal, paymentTotal))
	}

	switch payload.DocTypeCode {
	case "CUIT":
		if payload.CustomerEmail == "" {
			return apierror.E(apierror.KindValidation, "Las ventas con CUIT requieren email del cliente")
		}
	case "DNI":
		if payload.DocumentNumber != "" && !isNumeric(payload.DocumentNumber) {
			return apierror.E(apierror.KindValidation, "El DNI debe contener solo dígitos")
		}
	}
	return nil
}

func (s *crmService) Deliver(ctx context.Context, payload dto.CRMSalePayload) error {
	return s.client.SendSale(ctx, payload)
}

func (s *crmService) queueRetry(ctx context.Context, orderID uuid.UUID, payload dto.CRMSalePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.retryRepo.Create(ctx, &model.SaleRetry{
		OrderID: orderID,
		Payload: raw,
		Status:  model.SaleRetryPending,
	})
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
