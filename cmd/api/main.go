package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/buildingops/maintenance-service/internal/api/http"
	"github.com/buildingops/maintenance-service/internal/auth"
	"github.com/buildingops/maintenance-service/internal/cache"
	"github.com/buildingops/maintenance-service/internal/config"
	"github.com/buildingops/maintenance-service/internal/events"
	"github.com/buildingops/maintenance-service/internal/observability"
	"github.com/buildingops/maintenance-service/internal/persistence"
	"github.com/buildingops/maintenance-service/internal/repository"
	"github.com/buildingops/maintenance-service/internal/service"
	"github.com/buildingops/maintenance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := postgres.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	buildingRepo := repository.NewBuildingRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	var ticketCache *cache.TicketCache
	if cfg.Cache.Enabled {
		ticketCache = cache.NewTicketCache(redis.Client, cfg.Cache.TTL(), logger)
	} else {
		ticketCache = cache.NewTicketCache(nil, 0, logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	notifyWorker := worker.NewNotificationWorker(256, logger,
		&worker.EmailSender{From: cfg.Notification.EmailFrom, Logger: logger},
		&worker.WebhookSender{URL: cfg.Notification.WebhookURL},
	)
	notifyWorker.Start(2)
	defer notifyWorker.Shutdown()

	notifications := service.NewNotificationService(ticketRepo, userRepo, notifyWorker, logger)
	notifications.RegisterHandlers(dispatcher)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Tx:             postgres,
		TicketRepo:     ticketRepo,
		HistoryRepo:    historyRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		CategoryRepo:   categoryRepo,
		BuildingRepo:   buildingRepo,
		RoomRepo:       roomRepo,
		UserRepo:       userRepo,
		Cache:          ticketCache,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	catalogService := service.NewCatalogService(service.CatalogDependencies{
		BuildingRepo: buildingRepo,
		RoomRepo:     roomRepo,
		CategoryRepo: categoryRepo,
		TicketRepo:   ticketRepo,
		Logger:       logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	app := httpapi.NewServer(httpapi.RouterDependencies{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		Postgres:       postgres,
		Redis:          redis,
		AuthMiddleware: authMiddleware,
		Tickets:        ticketService,
		Catalog:        catalogService,
		Auth:           authService,
	})

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
