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
	"golang.org/x/time/rate"

	"github.com/felicare/ckd-api/internal/config"
	petHandler "github.com/felicare/ckd-api/internal/handler/pet"
	reminderHandler "github.com/felicare/ckd-api/internal/handler/reminder"
	scheduleHandler "github.com/felicare/ckd-api/internal/handler/schedule"
	settingsHandler "github.com/felicare/ckd-api/internal/handler/settings"
	treatmentHandler "github.com/felicare/ckd-api/internal/handler/treatment"
	"github.com/felicare/ckd-api/internal/middleware"
	"github.com/felicare/ckd-api/internal/repository/kv"
	"github.com/felicare/ckd-api/internal/repository/postgres"
	"github.com/felicare/ckd-api/internal/router"
	petService "github.com/felicare/ckd-api/internal/service/pet"
	"github.com/felicare/ckd-api/internal/service/reminder"
	scheduleService "github.com/felicare/ckd-api/internal/service/schedule"
	settingsService "github.com/felicare/ckd-api/internal/service/settings"
	treatmentService "github.com/felicare/ckd-api/internal/service/treatment"
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

	// Repositories
	petRepo := postgres.NewPetRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	// Services
	petSvc := petService.NewService(petRepo)
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	treatmentSvc := treatmentService.NewService(treatmentRepo)
	settingsSvc := settingsService.NewService(settingsRepo)

	// Reminder engine
	appMetrics := metrics.NewMetrics("felicare", "api")
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

	// Handlers
	handlers := []router.Handler{
		petHandler.NewHandler(petSvc),
		scheduleHandler.NewHandler(scheduleSvc, petSvc),
		treatmentHandler.NewHandler(treatmentSvc, petSvc),
		settingsHandler.NewHandler(settingsSvc),
		reminderHandler.NewHandler(engine, petSvc),
	}

	r := router.NewRouter(router.RouterConfig{
		RateLimit:     rate.Limit(100),
		RateBurst:     200,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "felicare_api",
	}, handlers...)
	r.Setup()

	// Dispatch due notifications from the in-process queue.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := worker.NewDispatchWorker(
		queue,
		broker,
		time.Duration(cfg.Worker.DispatchIntervalSeconds)*time.Second,
		appLogger,
		appMetrics,
	)
	go dispatcher.Start(workerCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

