package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dealerpress/api/internal/di"
	"github.com/dealerpress/api/internal/handlers"
	"github.com/dealerpress/api/internal/platform/config"
	pfirestore "github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/platform/observability"
	platformstorage "github.com/dealerpress/api/internal/platform/storage"
	firestoreRepo "github.com/dealerpress/api/internal/repositories/firestore"
)

const shutdownTimeout = 10 * time.Second

var version = "dev"

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	registry, err := firestoreRepo.NewRegistry(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise repositories", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := registry.Close(closeCtx); err != nil {
			logger.Warn("repository close error", zap.Error(err))
		}
	}()

	var signer platformstorage.Signer
	if keyFile := strings.TrimSpace(cfg.Storage.SignerKeyFile); keyFile != "" {
		signer, err = platformstorage.NewServiceAccountSignerFromFile(keyFile)
		if err != nil {
			logger.Fatal("failed to load storage signer key", zap.Error(err))
		}
	}

	assetResolver, err := platformstorage.NewAssetResolver(cfg.Storage, signer)
	if err != nil {
		logger.Fatal("failed to initialise asset resolver", zap.Error(err))
	}

	container, err := di.NewContainer(ctx, cfg, registry,
		di.WithAssetResolver(assetResolver),
		di.WithWarnLogger(observability.NewWarnfAdapter(logger)),
	)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}

	health := handlers.NewHealthHandlers(
		handlers.WithHealthVersion(version),
		handlers.WithHealthEnvironment(cfg.Environment),
		handlers.WithReadinessCheck("firestore", func(ctx context.Context) error {
			_, err := firestoreProvider.Client(ctx)
			return err
		}),
	)

	siteHandlers := handlers.NewSiteHandlers(
		handlers.WithRenderService(container.Services.Render),
		handlers.WithEditorService(container.Services.Editor),
		handlers.WithTourService(container.Services.Tour),
		handlers.WithEditorOrigins(cfg.CORS.AllowedOrigins),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.TraceMiddleware(cfg.Firestore.ProjectID),
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(cfg.Firestore.ProjectID),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(health),
		handlers.WithSiteRoutes(siteHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Environment),
		)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
