package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bausingcode/bausing-backend/internal/config"
	"github.com/bausingcode/bausing-backend/internal/model"
)

// mpPreferenceRequest is the body POSTed to /checkout/preferences.
// ExternalReference carries the order id; the webhook echoes it back.
type mpPreferenceRequest struct {
	ExternalReference string               `json:"external_reference"`
	Items             []mpPreferenceItem   `json:"items"`
	BackURLs          mpPreferenceBackURLs `json:"back_urls"`
	AutoReturn        string               `json:"auto_return"`
	NotificationURL   string               `json:"notification_url,omitempty"`
}

type mpPreferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type mpPreferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
}

type mpPreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// MercadoPagoClient creates checkout preferences against the MercadoPago API.
type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	successURL  string
	failureURL  string
	notifyURL   string
	httpClient  *http.Client
}

func NewMercadoPagoClient(cfg *config.Config) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL:     cfg.MPBaseURL,
		accessToken: cfg.MPAccessToken,
		successURL:  cfg.MPSuccessURL,
		failureURL:  cfg.MPFailureURL,
		notifyURL:   cfg.Domain + "/v1/webhooks/mercadopago",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePreference registers the order and returns the preference id plus the
// URL the customer completes payment at. Only the gateway leg of the total is
// charged; the wallet leg was already debited at checkout.
func (c *MercadoPagoClient) CreatePreference(ctx context.Context, order *model.Order) (string, string, error) {
	gatewayTotal := order.Total.Sub(order.WalletAmount)
	amount, _ := gatewayTotal.Float64()

	reqBody := mpPreferenceRequest{
		ExternalReference: order.ID.String(),
		Items: []mpPreferenceItem{{
			Title:     fmt.Sprintf("Orden %s", order.ID),
			Quantity:  1,
			UnitPrice: amount,
		}},
		BackURLs: mpPreferenceBackURLs{
			Success: c.successURL,
			Failure: c.failureURL,
		},
		AutoReturn:      "approved",
		NotificationURL: c.notifyURL,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("mercadopago: marshal preference: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("mercadopago: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("mercadopago: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("mercadopago: status %d", resp.StatusCode)
	}

	var result mpPreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("mercadopago: decode response: %w", err)
	}
	return result.ID, result.InitPoint, nil
}
