package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentGateway creates payment preferences for checkout. The infra
// implementation talks to MercadoPago.
type PaymentGateway interface {
	// CreatePreference registers the order with the gateway and returns the
	// preference id plus the redirect URL the customer pays at. The order id
	// travels as external reference and comes back in the webhook.
	CreatePreference(ctx context.Context, order *model.Order) (preferenceID, initPoint string, err error)
}

// PostPaymentNotifier enqueues the async follow-ups of a paid order. The
// worker dispatcher implements it over Redis.
type PostPaymentNotifier interface {
	QueueCRMSale(orderID uuid.UUID)
	QueueOrderEmail(orderID uuid.UUID)
}

// OrderService handles checkout and the payment webhook.
type OrderService interface {
	// Checkout resolves each item's price for the locality, decrements stock
	// under a compare-and-swap guard, records the wallet leg and creates the
	// order. Everything that touches stock or the ledger runs in one
	// transaction; a single out-of-stock item aborts the whole checkout.
	Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.OrderResponse, error)

	// HandleWebhook processes a gateway payment notification. Approved pays
	// the order exactly once; a replayed notification is a no-op. Malformed
	// payloads are logged and acked so the gateway stops retrying them.
	HandleWebhook(ctx context.Context, n dto.PaymentNotification) error

	Get(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (dto.OrderListResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	productRepo  repository.ProductRepository
	walletRepo   repository.WalletRepository
	localityRepo repository.LocalityRepository
	pricing      PricingService
	gateway      PaymentGateway
	notifier     PostPaymentNotifier

	now func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	walletRepo repository.WalletRepository,
	localityRepo repository.LocalityRepository,
	pricing PricingService,
	gateway PaymentGateway,
	notifier PostPaymentNotifier,
) OrderService {
	return &orderService{
		repo:         repo,
		productRepo:  productRepo,
		walletRepo:   walletRepo,
		localityRepo: localityRepo,
		pricing:      pricing,
		gateway:      gateway,
		notifier:     notifier,
		now:          time.Now,
	}
}

func mapOrder(o model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		WalletAmount:  o.WalletAmount,
		PreferenceID:  o.PreferenceID,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		Items:         make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductVariantOptionID: item.ProductVariantOptionID,
			Quantity:               item.Quantity,
			UnitPrice:              item.UnitPrice,
			Subtotal:               item.Subtotal,
		})
	}
	return resp
}

func (s *orderService) Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.OrderResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return dto.OrderResponse{}, apierror.E(apierror.KindValidation, "user_id inválido")
	}
	localityID, err := uuid.Parse(req.LocalityID)
	if err != nil {
		return dto.OrderResponse{}, apierror.E(apierror.KindValidation, "locality_id inválido")
	}
	if _, err := s.localityRepo.FindLocalityByID(ctx, localityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OrderResponse{}, apierror.NotFound("Localidad no encontrada")
		}
		return dto.OrderResponse{}, err
	}

	// First-interaction marker; idempotent.
	if _, err := s.repo.GetOrCreateCart(ctx, userID); err != nil {
		return dto.OrderResponse{}, err
	}

	// Resolve every item's price for the locality before touching stock.
	items := make([]model.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		optionID, err := uuid.Parse(it.ProductVariantOptionID)
		if err != nil {
			return dto.OrderResponse{}, apierror.E(apierror.KindValidation, "product_variant_option_id inválido")
		}
		price, err := s.pricing.ResolvePrice(ctx, optionID, localityID)
		if err != nil {
			return dto.OrderResponse{}, err
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, model.OrderItem{
			ProductVariantOptionID: optionID,
			Quantity:               it.Quantity,
			UnitPrice:              price,
			Subtotal:               subtotal,
		})
		total = total.Add(subtotal)
	}

	// Wallet leg. Checkout never overdraws: the leg is capped by the
	// available balance and by the order total.
	walletLeg := decimal.Zero
	var wallet *model.Wallet
	wantsWallet := req.PaymentMethod == "wallet" || req.WalletAmount.IsPositive()
	if wantsWallet {
		wallet, err = s.walletRepo.GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return dto.OrderResponse{}, err
		}
		if wallet.IsBlocked {
			return dto.OrderResponse{}, apierror.Conflict("La billetera está bloqueada")
		}
		comp, err := s.walletRepo.BalanceComponents(ctx, wallet.ID, s.now())
		if err != nil {
			return dto.OrderResponse{}, err
		}
		balance := comp.ValidCredits.Add(comp.Debits)

		if req.PaymentMethod == "wallet" {
			if balance.LessThan(total) {
				return dto.OrderResponse{}, apierror.Conflict("Saldo de billetera insuficiente")
			}
			walletLeg = total
		} else {
			walletLeg = decimal.Min(req.WalletAmount, balance, total)
			if walletLeg.IsNegative() {
				walletLeg = decimal.Zero
			}
		}
	}

	order := &model.Order{
		UserID:        userID,
		LocalityID:    localityID,
		Status:        model.OrderPending,
		PaymentMethod: req.PaymentMethod,
		Total:         total,
		WalletAmount:  walletLeg,
		Items:         items,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range items {
			rows, err := s.productRepo.DecrementStockTx(tx, item.ProductVariantOptionID, item.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return apierror.InsufficientStock(
					fmt.Sprintf("Stock insuficiente para la opción %s", item.ProductVariantOptionID))
			}
		}
		if err := s.repo.CreateTx(tx, order); err != nil {
			return err
		}
		if walletLeg.IsPositive() {
			return s.walletRepo.CreateMovementTx(tx, debitForOrder(wallet.ID, order.ID, walletLeg))
		}
		return nil
	})
	if err != nil {
		return dto.OrderResponse{}, err
	}

	resp := mapOrder(*order)

	switch req.PaymentMethod {
	case "wallet":
		// Fully covered by store credit, no gateway round trip.
		paidAt := s.now()
		if _, err := s.repo.MarkPaid(ctx, order.ID, paidAt); err != nil {
			return dto.OrderResponse{}, err
		}
		resp.Status = model.OrderPaid
		resp.PaidAt = &paidAt
		s.notifyPaid(order.ID)
	case "mercadopago":
		prefID, initPoint, err := s.gateway.CreatePreference(ctx, order)
		if err != nil {
			log.Error().Err(err).
				Str("order_id", order.ID.String()).
				Msg("no se pudo crear la preferencia de pago")
			return dto.OrderResponse{}, apierror.New("No se pudo iniciar el pago")
		}
		if err := s.repo.SetPreferenceID(ctx, order.ID, prefID); err != nil {
			return dto.OrderResponse{}, err
		}
		resp.PreferenceID = &prefID
		resp.InitPoint = &initPoint
	}
	// cash stays pending until confirmed manually.

	return resp, nil
}

func (s *orderService) HandleWebhook(ctx context.Context, n dto.PaymentNotification) error {
	orderID, err := uuid.Parse(n.ExternalReference)
	if err != nil {
		// Ack malformed notifications so the gateway stops retrying.
		log.Warn().
			Str("external_reference", n.ExternalReference).
			Str("status", n.Status).
			Msg("notificación de pago malformada, descartada")
		return nil
	}

	switch n.Status {
	case "approved":
		rows, err := s.repo.MarkPaid(ctx, orderID, s.now())
		if err != nil {
			return err
		}
		if rows == 0 {
			// Replay or order not pending anymore.
			log.Info().
				Str("order_id", orderID.String()).
				Str("payment_id", n.PaymentID).
				Msg("notificación de pago repetida, sin efecto")
			return nil
		}
		s.notifyPaid(orderID)
		return nil

	case "rejected":
		return s.reject(ctx, orderID)

	default:
		log.Debug().
			Str("order_id", orderID.String()).
			Str("status", n.Status).
			Msg("notificación de pago sin acción")
		return nil
	}
}

// reject releases the order's stock and refunds the wallet leg. Both are
// corrections by new movements, never edits of existing rows.
func (s *orderService) reject(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("order_id", orderID.String()).Msg("rechazo para orden inexistente")
			return nil
		}
		return err
	}
	if order.Status != model.OrderPending {
		return nil
	}

	if err := s.repo.MarkRejected(ctx, orderID); err != nil {
		return err
	}
	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(ctx, item.ProductVariantOptionID, item.Quantity); err != nil {
			return err
		}
	}
	if order.WalletAmount.IsPositive() {
		desc := "Reintegro por pago rechazado"
		wallet, err := s.walletRepo.GetOrCreateByUserID(ctx, order.UserID)
		if err != nil {
			return err
		}
		return s.walletRepo.CreateMovement(ctx, &model.WalletMovement{
			WalletID:    wallet.ID,
			Type:        model.MovementRefund,
			Amount:      order.WalletAmount,
			Description: &desc,
			OrderID:     &order.ID,
		})
	}
	return nil
}

func (s *orderService) notifyPaid(orderID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	s.notifier.QueueCRMSale(orderID)
	s.notifier.QueueOrderEmail(orderID)
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OrderResponse{}, apierror.NotFound("Orden no encontrada")
		}
		return dto.OrderResponse{}, err
	}
	return mapOrder(*o), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.OrderListResponse{}, err
	}

	resp := dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, o := range orders {
		resp.Data = append(resp.Data, mapOrder(o))
	}
	return resp, nil
}
