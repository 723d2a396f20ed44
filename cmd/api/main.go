package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"chathub/config"
	"chathub/internal/database"
	"chathub/internal/dispatch"
	"chathub/internal/outbox"
	chredis "chathub/internal/redis"
	"chathub/internal/repository"
	"chathub/internal/server"
	"chathub/internal/services"
	"chathub/internal/webhook"
	"chathub/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	zlog := l.Logger
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	redisClient, err := chredis.NewClient(cfg.RedisAddr(), cfg.RedisPassword, 0)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	registry := prometheus.NewRegistry()

	outboxRepo := outbox.NewRepository(db)
	txManager := database.NewTxManager(db, outboxRepo)

	bus := dispatch.NewBus(
		dispatch.CommandBehaviors(txManager, zlog),
		dispatch.QueryBehaviors(zlog),
	)
	services.RegisterHandlers(bus,
		services.NewTenantService(repository.NewTenantRepository(db)),
		services.NewMessageService(repository.NewMessageRepository(db)),
	)

	ledger := webhook.NewLedger(webhook.NewRepository(db), zlog)

	processor := outbox.NewProcessor(
		outboxRepo,
		chredis.NewPublisher(redisClient),
		zlog,
		outbox.NewMetrics(registry),
		cfg.OutboxBatchSize,
		cfg.OutboxInterval,
	)

	router := server.NewRouter(cfg.AppMode, cfg.JWTSecret, l,
		server.NewTenantHandler(bus),
		server.NewMessageHandler(bus),
		server.NewWebhookHandler(ledger, bus, zlog),
		registry,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go processor.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
