package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matricare/mcare-api/internal/config"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository/postgres"
	auditService "github.com/matricare/mcare-api/internal/service/audit"
	notificationService "github.com/matricare/mcare-api/internal/service/notification"
	"github.com/matricare/mcare-api/internal/worker"
	"github.com/matricare/mcare-api/pkg/logger"
	redisbroker "github.com/matricare/mcare-api/pkg/messaging/redis"
	"github.com/matricare/mcare-api/pkg/metrics"
	pkgworker "github.com/matricare/mcare-api/pkg/worker"
)

// WorkerEnv overrides the file config from the environment, which is how
// the worker is tuned per deployment without a config rollout.
type WorkerEnv struct {
	HealthPort          int `envconfig:"WORKER_HEALTH_PORT" default:"8081"`
	OutboxBatchSize     int `envconfig:"OUTBOX_BATCH_SIZE"`
	DispatcherBatchSize int `envconfig:"DISPATCHER_BATCH_SIZE"`
}

func setupHealthCheck(port int, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			appLogger.ZL.Error().Err(err).Msg("Health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	var env WorkerEnv
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal().Err(err).Msg("Failed to process environment")
	}
	if env.OutboxBatchSize > 0 {
		cfg.Outbox.BatchSize = env.OutboxBatchSize
	}
	if env.DispatcherBatchSize > 0 {
		cfg.Dispatcher.BatchSize = env.DispatcherBatchSize
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	appLogger := &logger.Logger{ZL: log.Logger}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.ZL.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(cfg.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	notificationSvc := notificationService.NewService(notificationRepo, auditService.NewService(auditRepo))

	appMetrics := metrics.NewMetrics("mcare_worker")

	processor := pkgworker.NewOutboxProcessor(
		outboxRepo,
		broker,
		cfg.Outbox.ToWorkerConfig(),
		appLogger,
		appMetrics,
	)

	dispatcher := worker.NewDispatcher(
		notificationSvc,
		map[model.NotificationChannel]worker.Provider{
			model.NotificationChannelSMS:  &worker.LogProvider{Channel: model.NotificationChannelSMS, Logger: appLogger},
			model.NotificationChannelPush: &worker.LogProvider{Channel: model.NotificationChannelPush, Logger: appLogger},
		},
		worker.DispatcherConfig{
			BatchSize:    cfg.Dispatcher.BatchSize,
			PollInterval: time.Duration(cfg.Dispatcher.PollIntervalSeconds) * time.Second,
		},
		appLogger,
		appMetrics,
	)

	setupHealthCheck(env.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.ZL.Info().Msg("Shutting down...")
		cancel()
	}()

	go dispatcher.Start(ctx)
	processor.Start(ctx)
}
