package service

import (
	"context"
	"testing"
	"time"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc         *orderService
	orderRepo   *stubOrderRepo
	productRepo *stubProductRepo
	walletRepo  *stubWalletRepo
	gateway     *stubGateway
	notifier    *stubNotifier

	userID     uuid.UUID
	localityID uuid.UUID
	optionID   uuid.UUID
}

// newOrderFixture wires a checkout-ready world: one locality in one catalog,
// one option priced at 1000 with stock 10.
func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orderRepo:   newStubOrderRepo(),
		productRepo: newStubProductRepo(),
		walletRepo:  newStubWalletRepo(),
		gateway:     &stubGateway{},
		notifier:    &stubNotifier{},
		userID:      uuid.New(),
	}
	pricingRepo := newStubPricingRepo()
	localityRepo := newStubLocalityRepo()
	f.localityID = localityRepo.addLocality()

	opt := &model.ProductVariantOption{Name: "2 plazas", Stock: 10}
	require.NoError(t, f.productRepo.CreateOption(context.Background(), opt))
	f.optionID = opt.ID

	catalog := &model.Catalog{Name: "Interior"}
	require.NoError(t, pricingRepo.CreateCatalog(context.Background(), catalog))
	require.NoError(t, pricingRepo.LinkLocality(context.Background(), &model.LocalityCatalog{
		LocalityID: f.localityID,
		CatalogID:  catalog.ID,
	}))
	require.NoError(t, pricingRepo.UpsertPrice(context.Background(), &model.ProductPrice{
		ProductVariantOptionID: opt.ID,
		CatalogID:              &catalog.ID,
		Price:                  decimal.NewFromInt(1000),
	}))

	pricing := NewPricingService(pricingRepo, f.productRepo, localityRepo)
	f.svc = NewOrderService(f.orderRepo, f.productRepo, f.walletRepo, localityRepo, pricing, f.gateway, f.notifier).(*orderService)
	return f
}

func (f *orderFixture) checkoutReq(method string, qty int) dto.CheckoutRequest {
	return dto.CheckoutRequest{
		UserID:        f.userID.String(),
		LocalityID:    f.localityID.String(),
		PaymentMethod: method,
		Items: []dto.CheckoutItem{
			{ProductVariantOptionID: f.optionID.String(), Quantity: qty},
		},
	}
}

func (f *orderFixture) credit(t *testing.T, amount int64) {
	t.Helper()
	w, err := f.walletRepo.GetOrCreateByUserID(context.Background(), f.userID)
	require.NoError(t, err)
	require.NoError(t, f.walletRepo.CreateMovement(context.Background(), &model.WalletMovement{
		WalletID: w.ID,
		Type:     model.MovementManualCredit,
		Amount:   decimal.NewFromInt(amount),
	}))
}

func (f *orderFixture) stock(t *testing.T) int {
	t.Helper()
	opt, err := f.productRepo.FindOptionByID(context.Background(), f.optionID)
	require.NoError(t, err)
	return opt.Stock
}

func TestCheckout_MercadoPagoCreatesPreference(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.svc.Checkout(context.Background(), f.checkoutReq("mercadopago", 2))
	require.NoError(t, err)

	assert.Equal(t, model.OrderPending, resp.Status)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(2000)))
	require.NotNil(t, resp.PreferenceID)
	assert.Equal(t, "pref-123", *resp.PreferenceID)
	require.NotNil(t, resp.InitPoint)
	assert.Equal(t, 8, f.stock(t))
	// Nothing queued until the payment is confirmed.
	assert.Empty(t, f.notifier.crmSales)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.checkoutReq("mercadopago", 11))
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
}

func TestCheckout_WalletMethodPaysInFull(t *testing.T) {
	f := newOrderFixture(t)
	f.credit(t, 5000)

	resp, err := f.svc.Checkout(context.Background(), f.checkoutReq("wallet", 3))
	require.NoError(t, err)

	assert.Equal(t, model.OrderPaid, resp.Status)
	assert.True(t, resp.WalletAmount.Equal(decimal.NewFromInt(3000)))
	require.NotNil(t, resp.PaidAt)

	// The ledger carries the negated debit tied to the order.
	comp, err := f.walletRepo.BalanceComponents(context.Background(), f.walletRepo.wallets[f.userID].ID, time.Now())
	require.NoError(t, err)
	assert.True(t, comp.ValidCredits.Add(comp.Debits).Equal(decimal.NewFromInt(2000)))

	// Paid order queues CRM forward and email.
	assert.Equal(t, []uuid.UUID{resp.ID}, f.notifier.crmSales)
	assert.Equal(t, []uuid.UUID{resp.ID}, f.notifier.emails)
}

func TestCheckout_WalletMethodInsufficientBalance(t *testing.T) {
	f := newOrderFixture(t)
	f.credit(t, 500)

	_, err := f.svc.Checkout(context.Background(), f.checkoutReq("wallet", 1))
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	// Stock untouched: the conflict fires before the transaction.
	assert.Equal(t, 10, f.stock(t))
}

// A partial wallet leg is capped by the available balance; checkout never
// overdraws.
func TestCheckout_PartialWalletLegCappedByBalance(t *testing.T) {
	f := newOrderFixture(t)
	f.credit(t, 700)

	req := f.checkoutReq("mercadopago", 1)
	req.WalletAmount = decimal.NewFromInt(900)

	resp, err := f.svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.WalletAmount.Equal(decimal.NewFromInt(700)), "got %s", resp.WalletAmount)
	assert.Equal(t, model.OrderPending, resp.Status)
}

func TestCheckout_BlockedWalletRejected(t *testing.T) {
	f := newOrderFixture(t)
	f.credit(t, 5000)
	f.walletRepo.wallets[f.userID].IsBlocked = true

	_, err := f.svc.Checkout(context.Background(), f.checkoutReq("wallet", 1))
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestCheckout_UnknownLocalityNotFound(t *testing.T) {
	f := newOrderFixture(t)
	req := f.checkoutReq("cash", 1)
	req.LocalityID = uuid.NewString()

	_, err := f.svc.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestHandleWebhook_ApprovedMarksPaidOnce(t *testing.T) {
	f := newOrderFixture(t)
	resp, err := f.svc.Checkout(context.Background(), f.checkoutReq("mercadopago", 1))
	require.NoError(t, err)

	n := dto.PaymentNotification{ExternalReference: resp.ID.String(), Status: "approved", PaymentID: "p1"}
	require.NoError(t, f.svc.HandleWebhook(context.Background(), n))
	assert.Equal(t, []uuid.UUID{resp.ID}, f.notifier.crmSales)

	// Replay: acked, no double queue.
	require.NoError(t, f.svc.HandleWebhook(context.Background(), n))
	assert.Equal(t, []uuid.UUID{resp.ID}, f.notifier.crmSales)
}

func TestHandleWebhook_MalformedReferenceAcked(t *testing.T) {
	f := newOrderFixture(t)

	err := f.svc.HandleWebhook(context.Background(), dto.PaymentNotification{
		ExternalReference: "no-es-un-uuid",
		Status:            "approved",
	})
	assert.NoError(t, err)
}

func TestHandleWebhook_RejectedRestocksAndRefunds(t *testing.T) {
	f := newOrderFixture(t)
	f.credit(t, 700)

	req := f.checkoutReq("mercadopago", 2)
	req.WalletAmount = decimal.NewFromInt(700)
	resp, err := f.svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 8, f.stock(t))

	require.NoError(t, f.svc.HandleWebhook(context.Background(), dto.PaymentNotification{
		ExternalReference: resp.ID.String(),
		Status:            "rejected",
	}))

	order, err := f.orderRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderRejected, order.Status)
	assert.Equal(t, 10, f.stock(t))

	// Wallet leg refunded by a new credit movement; balance back to 700.
	comp, err := f.walletRepo.BalanceComponents(context.Background(), f.walletRepo.wallets[f.userID].ID, time.Now())
	require.NoError(t, err)
	assert.True(t, comp.ValidCredits.Add(comp.Debits).Equal(decimal.NewFromInt(700)))
}

func TestHandleWebhook_PendingStatusNoAction(t *testing.T) {
	f := newOrderFixture(t)
	resp, err := f.svc.Checkout(context.Background(), f.checkoutReq("mercadopago", 1))
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), dto.PaymentNotification{
		ExternalReference: resp.ID.String(),
		Status:            "in_process",
	}))

	order, err := f.orderRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
}
