package worker

// crm_worker.go
// Processes CRM forward jobs from QueueCRM: builds the sale document for a
// paid order and sends it to the external sales system. Transport failures
// are queued in sale_retries by the service; only non-retryable failures
// (bad documents) land in the DLQ.

import (
	"context"
	"encoding/json"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CRMWorker processes sale forward jobs.
type CRMWorker struct {
	crm service.CRMService
	rdb *redis.Client
}

func NewCRMWorker(crm service.CRMService, rdb *redis.Client) *CRMWorker {
	return &CRMWorker{crm: crm, rdb: rdb}
}

func (w *CRMWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload OrderJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("crm_worker: invalid payload")
		return
	}
	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("crm_worker: invalid order_id")
		return
	}

	if err := w.crm.ForwardSale(ctx, orderID); err != nil {
		// Validation failures won't improve with retries; park them for a
		// human.
		if apierror.KindOf(err) == apierror.KindValidation {
			SendToDLQ(ctx, w.rdb, QueueCRM, "crm_sale", raw, err.Error(), 1)
			return
		}
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("crm_worker: forward failed")
		return
	}
	log.Info().Str("order_id", payload.OrderID).Msg("crm_worker: sale forwarded")
}
