package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/djval79/complyflow-api/internal/config"
	"github.com/djval79/complyflow-api/internal/repository/postgres"
	"github.com/djval79/complyflow-api/pkg/logger"
	"github.com/djval79/complyflow-api/pkg/messaging/redis"
	"github.com/djval79/complyflow-api/pkg/metrics"
	"github.com/djval79/complyflow-api/pkg/worker"
)

// The worker relays rota events from the outbox table to Redis and prunes
// processed rows. It runs separately from the API so a broker outage never
// slows the scheduling path.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("complyflow_worker")

	zl := log.Logger
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetentionDays: cfg.Outbox.RetentionDays,
		Channel:       cfg.Outbox.Channel,
	}, appLogger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Outbox.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := processor.Cleanup(ctx); err != nil {
					appLogger.Error(err, "outbox cleanup failed")
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
}
