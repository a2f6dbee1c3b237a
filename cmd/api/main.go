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
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/matricare/mcare-api/internal/config"
	alertHandler "github.com/matricare/mcare-api/internal/handler/alert"
	auditHandler "github.com/matricare/mcare-api/internal/handler/audit"
	authHandler "github.com/matricare/mcare-api/internal/handler/auth"
	healthHandler "github.com/matricare/mcare-api/internal/handler/health"
	mealHandler "github.com/matricare/mcare-api/internal/handler/meal"
	motherHandler "github.com/matricare/mcare-api/internal/handler/mother"
	notificationHandler "github.com/matricare/mcare-api/internal/handler/notification"
	planHandler "github.com/matricare/mcare-api/internal/handler/plan"
	threadHandler "github.com/matricare/mcare-api/internal/handler/thread"
	userHandler "github.com/matricare/mcare-api/internal/handler/user"
	"github.com/matricare/mcare-api/internal/middleware"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository/postgres"
	"github.com/matricare/mcare-api/internal/router"
	alertService "github.com/matricare/mcare-api/internal/service/alert"
	auditService "github.com/matricare/mcare-api/internal/service/audit"
	authService "github.com/matricare/mcare-api/internal/service/auth"
	mealService "github.com/matricare/mcare-api/internal/service/meal"
	motherService "github.com/matricare/mcare-api/internal/service/mother"
	notificationService "github.com/matricare/mcare-api/internal/service/notification"
	planService "github.com/matricare/mcare-api/internal/service/plan"
	threadService "github.com/matricare/mcare-api/internal/service/thread"
	userService "github.com/matricare/mcare-api/internal/service/user"
	"github.com/matricare/mcare-api/internal/worker"
	"github.com/matricare/mcare-api/pkg/auth"
	"github.com/matricare/mcare-api/pkg/logger"
	redisbroker "github.com/matricare/mcare-api/pkg/messaging/redis"
	"github.com/matricare/mcare-api/pkg/metrics"
	"github.com/matricare/mcare-api/pkg/security"
	pkgworker "github.com/matricare/mcare-api/pkg/worker"
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

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	motherRepo := postgres.NewMotherRepository(db)
	mealRepo := postgres.NewMealRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	threadRepo := postgres.NewThreadRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	auditSvc := auditService.NewService(auditRepo)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	userSvc := userService.NewService(userRepo, hasher, auditSvc)
	motherSvc := motherService.NewService(motherRepo, userRepo, auditSvc)
	mealSvc := mealService.NewService(mealRepo, motherRepo, auditSvc)
	planSvc := planService.NewService(planRepo, motherRepo, auditSvc)
	threadSvc := threadService.NewService(threadRepo, motherRepo, userRepo, auditSvc)
	alertSvc := alertService.NewService(alertRepo, motherRepo, auditSvc)
	notificationSvc := notificationService.NewService(notificationRepo, auditSvc)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc, notificationSvc),
		motherHandler.NewHandler(motherSvc, outboxRepo),
		userHandler.NewHandler(userSvc),
		mealHandler.NewHandler(mealSvc, outboxRepo),
		planHandler.NewHandler(planSvc, outboxRepo),
		threadHandler.NewHandler(threadSvc, outboxRepo),
		alertHandler.NewHandler(alertSvc, outboxRepo),
		notificationHandler.NewHandler(notificationSvc),
		auditHandler.NewHandler(auditSvc),
		router.Config{
			RateLimit:     rate.Limit(50),
			RateBurst:     100,
			CORSConfig:    middleware.DefaultCORSConfig(),
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			MetricsPrefix: "mcare_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox processor publishes committed events to Redis.
	broker, err := redisbroker.NewRedisBroker(cfg.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics("mcare")
	outboxProcessor := pkgworker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), appLogger, appMetrics)
	go outboxProcessor.Start(ctx)

	// Notification dispatcher delivers queued SMS and push messages.
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
	go dispatcher.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
