package service

import (
	"context"
	"testing"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crmFixture struct {
	svc       CRMService
	client    *stubCRMClient
	orderRepo *stubOrderRepo
	userRepo  *stubUserRepo
	retryRepo *stubSaleRetryRepo
}

// newCRMFixture seeds a paid order of one item (2 × 1000) for a DNI customer.
func newCRMFixture(t *testing.T) (*crmFixture, uuid.UUID) {
	t.Helper()
	f := &crmFixture{
		client:    &stubCRMClient{},
		orderRepo: newStubOrderRepo(),
		userRepo:  newStubUserRepo(),
		retryRepo: &stubSaleRetryRepo{},
	}
	productRepo := newStubProductRepo()
	f.svc = NewCRMService(f.client, f.orderRepo, f.userRepo, productRepo, f.retryRepo)

	docNumber := "30123456"
	user := &model.User{Name: "Juana Pérez", Email: "juana@example.com", DocumentNumber: &docNumber}
	require.NoError(t, f.userRepo.Create(context.Background(), user))

	opt := &model.ProductVariantOption{Name: "2 plazas", Stock: 5}
	require.NoError(t, productRepo.CreateOption(context.Background(), opt))

	order := &model.Order{
		UserID:        user.ID,
		Status:        model.OrderPaid,
		PaymentMethod: "mercadopago",
		Total:         decimal.NewFromInt(2000),
		WalletAmount:  decimal.Zero,
		Items: []model.OrderItem{{
			ProductVariantOptionID: opt.ID,
			Quantity:               2,
			UnitPrice:              decimal.NewFromInt(1000),
			Subtotal:               decimal.NewFromInt(2000),
		}},
	}
	require.NoError(t, f.orderRepo.CreateTx(nil, order))
	return f, order.ID
}

func TestForwardSale_SendsPayload(t *testing.T) {
	f, orderID := newCRMFixture(t)

	require.NoError(t, f.svc.ForwardSale(context.Background(), orderID))
	require.Len(t, f.client.sent, 1)

	payload := f.client.sent[0]
	assert.Equal(t, orderID.String(), payload.OrderID)
	assert.Equal(t, "Juana Pérez", payload.CustomerName)
	assert.Equal(t, "DNI", payload.DocTypeCode)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "2 plazas", payload.Items[0].Description)
	require.Len(t, payload.Payments, 1)
	assert.Equal(t, "mercadopago", payload.Payments[0].Method)
	assert.True(t, payload.Payments[0].Total.Equal(decimal.NewFromInt(2000)))
}

func TestForwardSale_WalletLegSplitsPayments(t *testing.T) {
	f, orderID := newCRMFixture(t)
	order, err := f.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	order.WalletAmount = decimal.NewFromInt(500)

	require.NoError(t, f.svc.ForwardSale(context.Background(), orderID))
	require.Len(t, f.client.sent, 1)

	payments := f.client.sent[0].Payments
	require.Len(t, payments, 2)
	assert.Equal(t, "wallet", payments[0].Method)
	assert.True(t, payments[0].Total.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "mercadopago", payments[1].Method)
	assert.True(t, payments[1].Total.Equal(decimal.NewFromInt(1500)))
}

func TestForwardSale_UnpaidOrderRejected(t *testing.T) {
	f, orderID := newCRMFixture(t)
	order, err := f.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	order.Status = model.OrderPending

	err = f.svc.ForwardSale(context.Background(), orderID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Empty(t, f.client.sent)
}

// Transport failures queue a retry row and do not surface to the caller; the
// cron re-drives delivery later.
func TestForwardSale_TransportFailureQueuesRetry(t *testing.T) {
	f, orderID := newCRMFixture(t)
	f.client.fail = true

	require.NoError(t, f.svc.ForwardSale(context.Background(), orderID))
	require.Len(t, f.retryRepo.retries, 1)
	assert.Equal(t, orderID, f.retryRepo.retries[0].OrderID)
	assert.Equal(t, model.SaleRetryPending, f.retryRepo.retries[0].Status)
}

func TestValidateSale_TotalsMustMatch(t *testing.T) {
	f, _ := newCRMFixture(t)

	err := f.svc.ValidateSale(dto.CRMSalePayload{
		DocTypeCode: "DNI",
		Items: []dto.CRMSaleItem{
			{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1000), Total: decimal.NewFromInt(1000)},
		},
		Payments: []dto.CRMSalePayment{
			{Method: "cash", Total: decimal.NewFromInt(900)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestValidateSale_CUITRequiresEmail(t *testing.T) {
	f, _ := newCRMFixture(t)

	payload := dto.CRMSalePayload{
		DocTypeCode: "CUIT",
		Items: []dto.CRMSaleItem{
			{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1000), Total: decimal.NewFromInt(1000)},
		},
		Payments: []dto.CRMSalePayment{{Method: "cash", Total: decimal.NewFromInt(1000)}},
	}
	err := f.svc.ValidateSale(payload)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	payload.CustomerEmail = "empresa@example.com"
	assert.NoError(t, f.svc.ValidateSale(payload))
}

func TestValidateSale_DNIMustBeNumeric(t *testing.T) {
	f, _ := newCRMFixture(t)

	payload := dto.CRMSalePayload{
		DocTypeCode:    "DNI",
		DocumentNumber: "30.123.456",
		Items: []dto.CRMSaleItem{
			{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1000), Total: decimal.NewFromInt(1000)},
		},
		Payments: []dto.CRMSalePayment{{Method: "cash", Total: decimal.NewFromInt(1000)}},
	}
	err := f.svc.ValidateSale(payload)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	payload.DocumentNumber = "30123456"
	assert.NoError(t, f.svc.ValidateSale(payload))
}

func TestValidateSale_EmptyItemsRejected(t *testing.T) {
	f, _ := newCRMFixture(t)

	err := f.svc.ValidateSale(dto.CRMSalePayload{DocTypeCode: "DNI"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}
