package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/config"
	"github.com/airavata-tech/portfolio-api/internal/bootstrap"
	"github.com/airavata-tech/portfolio-api/internal/catalog/fallback"
	"github.com/airavata-tech/portfolio-api/internal/catalog/repository"
	"github.com/airavata-tech/portfolio-api/internal/catalog/service"
	"github.com/airavata-tech/portfolio-api/internal/logging"
)

const serviceName = "portfolio-api"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := loadFallback(cfg.Store.FallbackFile)
	if err != nil {
		return err
	}

	// A store that cannot be reached at startup is not fatal; the catalog is
	// served from the static table until the process is restarted.
	var store repository.Store
	store, err = bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Warn("document store unavailable, serving static catalog",
			zap.String("driver", cfg.Store.Driver), zap.Error(err))
		store = nil
	}
	if store != nil {
		defer func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(cctx); err != nil {
				log.Warn("closing store", zap.Error(err))
			}
		}()
	}

	catalog := service.NewCatalogService(store, table, cfg.Store.Timeout, log)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Driver:         cfg.Store.Driver,
		CORSOrigins:    cfg.Server.CORSOrigins,
		APIKey:         cfg.Server.APIKey,
		WriteRateLimit: cfg.Server.WriteRateLimit,
		WriteRateBurst: cfg.Server.WriteRateBurst,
		Catalog:        catalog,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.Bool("store", catalog.HasStore()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func loadFallback(path string) (*fallback.Table, error) {
	if path == "" {
		return fallback.Load()
	}
	t, err := fallback.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fallback %s: %w", path, err)
	}
	return t, nil
}
