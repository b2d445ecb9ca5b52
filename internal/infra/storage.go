package infra

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bausingcode/bausing-backend/internal/config"
)

// StorageClient uploads product images to a Supabase-compatible object store
// and returns their public URL.
type StorageClient struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

func NewStorageClient(cfg *config.Config) *StorageClient {
	return &StorageClient{
		baseURL:    cfg.StorageURL,
		serviceKey: cfg.StorageServiceKey,
		bucket:     cfg.StorageBucket,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload stores data under objectPath in the configured bucket, overwriting
// an existing object, and returns the public URL.
func (c *StorageClient) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage: status %d", resp.StatusCode)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectPath), nil
}
