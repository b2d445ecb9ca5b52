package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bausingcode/bausing-backend/internal/dto"
)

// CRMClient forwards sale documents to the external sales system over HTTP.
// All calls go through the circuit breaker so a down CRM fast-fails instead
// of tying up workers on timeouts.
type CRMClient struct {
	baseURL    string
	token      string
	cb         *CircuitBreaker
	httpClient *http.Client
}

func NewCRMClient(baseURL, token string, cb *CircuitBreaker) *CRMClient {
	return &CRMClient{
		baseURL:    baseURL,
		token:      token,
		cb:         cb,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendSale POSTs the sale document. A non-2xx response counts as a failure
// for the circuit breaker.
func (c *CRMClient) SendSale(ctx context.Context, payload dto.CRMSalePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("crm: marshal sale: %w", err)
	}

	return c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sales", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("crm: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("crm: unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("crm: status %d", resp.StatusCode)
		}
		return nil
	})
}
