package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/httpapi"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/scroll"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/settings"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instanceID := uuid.NewString()
	logger = logger.With(zap.String("instance", instanceID))

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	bus, closeBus, err := openBus(ctx, cfg, instanceID, logger)
	if err != nil {
		return err
	}
	defer closeBus()

	store = storage.NewNotifyingStore(store, bus, logger)

	menu, err := catalog.DefaultMenu()
	if err != nil {
		return err
	}
	if cfg.MenuFile != "" {
		w, err := catalog.NewWatcher(cfg.MenuFile, menu, logger)
		if err != nil {
			return fmt.Errorf("menu watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("menu watcher: %w", err)
		}
		defer w.Stop()
	}

	sessions := session.NewManager(store, bus, instanceID, scroll.DefaultFrame, logger)
	defer sessions.Close()
	go sessions.RunSweeper(ctx, time.Minute, cfg.SessionIdleTimeout)

	bus.Subscribe(events.EventStoreNameChanged, func(_ context.Context, ev events.Event) {
		logger.Info("store name changed", zap.String("store_name", ev.Value), zap.String("producer", ev.Producer))
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   logger,
		Catalog:  catalog.NewRepository(store, menu, logger),
		Sessions: sessions,
		Settings: settings.NewService(store, bus, settings.Options{
			AdminUsername:    cfg.AdminUsername,
			AdminPassword:    cfg.AdminPassword,
			DefaultStoreName: cfg.StoreName,
		}, logger),
		Numbers:          order.RandomNumbers{Prefix: cfg.OrderPrefix},
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	case "sqlite":
		s, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, nil, err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return storage.NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

// openBus returns a RabbitMQ-backed bus when RABBITMQ_URL is set, an in-process one otherwise.
func openBus(ctx context.Context, cfg config.Config, instanceID string, logger *zap.Logger) (events.Bus, func(), error) {
	if cfg.RabbitURL == "" {
		return events.NewLocalBus(instanceID), func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitURL)
	if err != nil {
		return nil, nil, err
	}
	bus, err := events.NewRabbitBus(conn, instanceID, logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if err := bus.Start(ctx); err != nil {
		_ = bus.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return bus, func() {
		if err := bus.Close(); err != nil {
			logger.Warn("close event bus", zap.Error(err))
		}
		_ = conn.Close()
	}, nil
}
