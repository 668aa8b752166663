package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/djval79/complyflow-api/internal/config"
	"github.com/djval79/complyflow-api/internal/handler"
	competencyHandler "github.com/djval79/complyflow-api/internal/handler/competency"
	rotaHandler "github.com/djval79/complyflow-api/internal/handler/rota"
	"github.com/djval79/complyflow-api/internal/middleware"
	"github.com/djval79/complyflow-api/internal/repository/postgres"
	"github.com/djval79/complyflow-api/internal/router"
	complianceService "github.com/djval79/complyflow-api/internal/service/compliance"
	competencyService "github.com/djval79/complyflow-api/internal/service/competency"
	eventService "github.com/djval79/complyflow-api/internal/service/event"
	rotaService "github.com/djval79/complyflow-api/internal/service/rota"
	"github.com/djval79/complyflow-api/pkg/logger"
	"github.com/djval79/complyflow-api/pkg/metrics"
)

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
	appMetrics := metrics.NewMetrics("complyflow")

	// Repositories
	staffRepo := postgres.NewStaffRepository(db)
	trainingRepo := postgres.NewTrainingRepository(db)
	shiftRepo := postgres.NewShiftRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	var fallback competencyService.DegradedModeProvider
	if cfg.DegradedMode == config.DegradedModeSample {
		fallback = competencyService.NewSampleDataProvider()
	}
	competencySvc := competencyService.NewService(staffRepo, trainingRepo, fallback, appLogger, appMetrics)
	complianceSvc := complianceService.NewService(competencySvc)
	eventSvc := eventService.NewService(outboxRepo, appLogger)
	rotaSvc := rotaService.NewService(shiftRepo, templateRepo, complianceSvc, competencySvc, eventSvc, appLogger, appMetrics)

	// Router
	r := router.NewRouter(
		router.Config{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORS:           middleware.DefaultCORSConfig(),
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			MetricsPrefix:  "complyflow",
		},
		rotaHandler.NewHandler(rotaSvc),
		competencyHandler.NewHandler(competencySvc, complianceSvc),
		handler.NewHealthHandler(db),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
