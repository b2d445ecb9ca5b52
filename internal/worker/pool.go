package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueCRM   = "jobs:crm_sale"
	QueueEmail = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. It implements service.PostPaymentNotifier.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// QueueCRMSale enqueues the CRM forward for a paid order. Enqueue failures
// are logged, not propagated: the retry cron re-derives missed forwards from
// the database, and a paid order must never fail on queue hiccups.
func (d *Dispatcher) QueueCRMSale(orderID uuid.UUID) {
	if err := d.enqueue(context.Background(), QueueCRM, "crm_sale", OrderJobPayload{OrderID: orderID.String()}); err != nil {
		log.Error().Err(err).Str("order_id", orderID.String()).Msg("dispatcher: failed to enqueue crm job")
	}
}

// QueueOrderEmail enqueues the order confirmation email.
func (d *Dispatcher) QueueOrderEmail(orderID uuid.UUID) {
	if err := d.enqueue(context.Background(), QueueEmail, "order_email", OrderJobPayload{OrderID: orderID.String()}); err != nil {
		log.Error().Err(err).Str("order_id", orderID.String()).Msg("dispatcher: failed to enqueue email job")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// OrderJobPayload is the envelope both queues share: jobs reference the order
// by id and re-read state from the database when they run.
type OrderJobPayload struct {
	OrderID string `json:"order_id"`
}

// Handlers groups the per-queue processors the pool routes jobs to.
type Handlers struct {
	CRM   *CRMWorker
	Email *EmailWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, h Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, h)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, h Handlers) {
	queues := []string{QueueCRM, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, h, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, h Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueCRM:
		h.CRM.Process(ctx, job.Payload)
	case QueueEmail:
		h.Email.Process(ctx, job.Payload)
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue dropped")
	}
}
