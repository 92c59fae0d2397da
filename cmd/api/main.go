package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/shipwatch/tracking-engine/docs"
	"github.com/shipwatch/tracking-engine/internal/api"
	"github.com/shipwatch/tracking-engine/internal/core/service"
	"github.com/shipwatch/tracking-engine/internal/infrastructure/carrier"
	"github.com/shipwatch/tracking-engine/internal/infrastructure/config"
	mongodb "github.com/shipwatch/tracking-engine/internal/infrastructure/db/mongo"
	redisdb "github.com/shipwatch/tracking-engine/internal/infrastructure/db/redis"
	"github.com/shipwatch/tracking-engine/internal/infrastructure/orders"
	"github.com/shipwatch/tracking-engine/internal/infrastructure/queue"
	"github.com/shipwatch/tracking-engine/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title        Tracking Engine API
// @version      1.0
// @description  Multi-carrier shipment tracking: normalizes carrier payloads into a canonical status taxonomy, persists one shipment per order and propagates delivery to order management.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	shipmentRepo := mongodb.NewShipmentRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	if err := shipmentRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("shipment index creation failed")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	// --- Carriers and collaborators ---
	registry := carrier.NewRegistry(carrier.NewSyntheticBackend(time.Now), carrier.Config{
		FetchTimeout: cfg.CarrierFetchTimeout,
		Clock:        time.Now,
	}, log)

	ordersClient := orders.NewClient(cfg.Orders.BaseURL, cfg.Orders.Token, cfg.Orders.Timeout, log)

	notifyQueue := redisdb.NewNotifyQueue(rdb)
	notifyWorker := redisdb.NewNotifyWorker(notifyQueue, ordersClient, log)
	notifyWorker.Start()

	// --- Services ---
	shipmentService := service.NewShipmentService(
		shipmentRepo,
		registry,
		ordersClient,
		notifyQueue,
		cfg.StalenessThreshold,
		log,
	)

	dispatcher := queue.NewDispatcher(cfg.RefreshWorkers, shipmentService, log)
	dispatcher.Start(ctx)
	shipmentService.SetRefreshScheduler(dispatcher)

	trackingService := service.NewTrackingService(registry, log)
	statsService := service.NewStatsService(shipmentRepo)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
		Shipments: shipmentService,
		Tracking:  trackingService,
		Stats:     statsService,
		Auth:      authService,
		Mongo:     db,
		Redis:     rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("tracking engine started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := notifyWorker.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("notify worker shutdown timed out")
	}
	log.Info().Msg("tracking engine stopped")
}
