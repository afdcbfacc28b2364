package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/felicare/ckd-api/internal/config"
	"github.com/felicare/ckd-api/internal/repository/kv"
	"github.com/felicare/ckd-api/internal/repository/postgres"
	scheduleService "github.com/felicare/ckd-api/internal/service/schedule"
	settingsService "github.com/felicare/ckd-api/internal/service/settings"
	treatmentService "github.com/felicare/ckd-api/internal/service/treatment"
	"github.com/felicare/ckd-api/internal/service/reminder"
	"github.com/felicare/ckd-api/pkg/logger"
	redisBroker "github.com/felicare/ckd-api/pkg/messaging/redis"
	"github.com/felicare/ckd-api/pkg/metrics"
	"github.com/felicare/ckd-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	kvStore, err := kv.NewRedisStore(kv.RedisConfig{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis broker")
	}
	defer broker.Close()

	petRepo := postgres.NewPetRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	scheduleSvc := scheduleService.NewService(scheduleRepo)
	treatmentSvc := treatmentService.NewService(treatmentRepo)
	settingsSvc := settingsService.NewService(settingsRepo)

	appMetrics := metrics.NewMetrics("felicare", "worker")
	indexStore := reminder.NewIndexStore(kvStore, appLogger)
	queue := reminder.NewNotificationQueue()
	engine := reminder.NewEngine(
		indexStore,
		queue,
		scheduleSvc,
		treatmentSvc,
		settingsSvc,
		reminder.PolicyFromConfig(cfg.Reminder),
		appLogger,
		appMetrics,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := worker.NewReconcileWorker(
		petRepo,
		engine,
		time.Duration(cfg.Worker.ReconcileIntervalMinutes)*time.Minute,
		appLogger,
	)
	go reconciler.Start(ctx)

	dispatcher := worker.NewDispatchWorker(
		queue,
		broker,
		time.Duration(cfg.Worker.DispatchIntervalSeconds)*time.Second,
		appLogger,
		appMetrics,
	)
	go dispatcher.Start(ctx)

	// Health and metrics endpoint for the worker process.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start health server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker exited properly")
}

