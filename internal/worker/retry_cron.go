package worker

// retry_cron.go
// Background goroutine that periodically re-attempts CRM forwards queued in
// sale_retries. Uses the circuit breaker state to avoid hammering a downed
// CRM and moves exhausted rows to the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/infra"
	"github.com/bausingcode/bausing-backend/internal/repository"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxSaleRetries before a row is marked failed and parked in the DLQ.
	MaxSaleRetries = 5
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RetryRepo repository.SaleRetryRepository
	CRM       service.CRMService
	CB        *infra.CircuitBreaker
	RDB       *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries due sale retries and re-attempts delivery. Respects the context
// for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed CRM
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	due, err := cfg.RetryRepo.ListDue(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query due retries")
		return
	}
	if len(due) == 0 {
		return
	}

	log.Info().Int("count", len(due)).Msg("retry_cron: processing due sale retries")

	for i := range due {
		retry := &due[i]

		// The CB may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		var payload dto.CRMSalePayload
		if err := json.Unmarshal(retry.Payload, &payload); err != nil {
			msg := "stored payload is not valid JSON: " + err.Error()
			_ = cfg.RetryRepo.MarkFailed(ctx, retry.ID, msg)
			SendToDLQ(ctx, cfg.RDB, QueueCRM, "crm_sale", retry.Payload, msg, retry.Attempts)
			continue
		}

		if err := cfg.CRM.Deliver(ctx, payload); err != nil {
			attempts := retry.Attempts + 1
			if attempts >= MaxSaleRetries {
				_ = cfg.RetryRepo.MarkFailed(ctx, retry.ID, err.Error())
				log.Error().
					Str("sale_retry_id", retry.ID.String()).
					Str("order_id", retry.OrderID.String()).
					Int("attempts", attempts).
					Msg("retry_cron: max retries exceeded, moving to DLQ")
				SendToDLQ(ctx, cfg.RDB, QueueCRM, "crm_sale", retry.Payload, err.Error(), attempts)
				continue
			}

			next := time.Now().Add(computeRetryBackoff(attempts))
			_ = cfg.RetryRepo.Reschedule(ctx, retry.ID, attempts, next, err.Error())
			log.Warn().
				Str("sale_retry_id", retry.ID.String()).
				Int("attempts", attempts).
				Time("next_retry_at", next).
				Msg("retry_cron: delivery failed, rescheduled")
			continue
		}

		if err := cfg.RetryRepo.MarkDelivered(ctx, retry.ID); err != nil {
			log.Error().Err(err).Str("sale_retry_id", retry.ID.String()).Msg("retry_cron: failed to mark delivered")
			continue
		}
		log.Info().
			Str("sale_retry_id", retry.ID.String()).
			Str("order_id", retry.OrderID.String()).
			Int("total_attempts", retry.Attempts+1).
			Msg("retry_cron: sale delivered after retry")
	}
}

// computeRetryBackoff doubles the wait per attempt: 1m, 2m, 4m, 8m…
func computeRetryBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(1<<uint(attempts-1)) * time.Minute
}
