package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bausingcode/bausing-backend/internal/config"
	"github.com/bausingcode/bausing-backend/internal/infra"
	"github.com/bausingcode/bausing-backend/internal/repository"
	"github.com/bausingcode/bausing-backend/internal/router"
	"github.com/bausingcode/bausing-backend/internal/service"
	"github.com/bausingcode/bausing-backend/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Workers are wired here (composition root) so the pool has full access
	// to all infrastructure dependencies: CRM forwarding and order emails run
	// off-request, the retry cron re-drives failed CRM deliveries.
	crmCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	crmClient := infra.NewCRMClient(cfg.CRMBaseURL, cfg.CRMToken, crmCB)
	mailer := infra.NewMailer(cfg)

	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	retryRepo := repository.NewSaleRetryRepository(db)

	crmSvc := service.NewCRMService(crmClient, orderRepo, userRepo, productRepo, retryRepo)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		CRM:   worker.NewCRMWorker(crmSvc, rdb),
		Email: worker.NewEmailWorker(mailer, orderRepo, userRepo),
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		RetryRepo: retryRepo,
		CRM:       crmSvc,
		CB:        crmCB,
		RDB:       rdb,
	})

	r := router.New(cfg, db, rdb, crmCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("bausing backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
