package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/membership-service/internal/api/http"
	"github.com/spec-kit/membership-service/internal/api/http/handlers"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/mail"
	"github.com/spec-kit/membership-service/internal/observability"
	"github.com/spec-kit/membership-service/internal/persistence"
	"github.com/spec-kit/membership-service/internal/repository"
	"github.com/spec-kit/membership-service/internal/service"
	"github.com/spec-kit/membership-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	uploader, err := storage.NewCloudinaryUploader(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init cloudinary", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	appRepo := repository.NewApplicationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	sender := mail.NewSendGridSender(cfg.Mail, logger)
	notifications := service.NewNotificationService(sender, logger, cfg.Mail, cfg.Payment)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:      userRepo,
		ResetRepo:     resetRepo,
		Notifications: notifications,
		Logger:        logger,
	})
	userService := service.NewUserService(cfg.Auth, userRepo, logger)
	onboardingService := service.NewOnboardingService(service.OnboardingDependencies{
		ApplicationRepo: appRepo,
		UserRepo:        userRepo,
		Uploader:        uploader,
		Notifications:   notifications,
		Logger:          logger,
		UploadFolder:    cfg.Storage.OnboardingFolder,
	})
	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:     eventRepo,
		UserRepo:      userRepo,
		Uploader:      uploader,
		Notifications: notifications,
		Logger:        logger,
		UploadFolder:  cfg.Storage.EventFolder,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	googleConf := auth.NewGoogleConfig(cfg.OAuth)
	stateStore := auth.NewStateStore(redis.Client)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService, googleConf, stateStore, cfg.Mail.FrontendURL),
		Onboarding:     handlers.NewOnboardingHandler(onboardingService),
		Events:         handlers.NewEventsHandler(eventService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
