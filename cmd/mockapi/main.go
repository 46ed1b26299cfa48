// Package main is the entry point for the development API server that backs
// the admin console with products and users collections.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/config"
	"github.com/vyrodovalexey/restadmin/internal/logging"
	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/server"
	"github.com/vyrodovalexey/restadmin/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, os.Stdout, logging.Options{Sampled: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.Int("rate_limit_per_min", cfg.RateLimitPerMin),
		zap.String("seed_file", cfg.SeedFile),
	)

	products, users, err := newStorages(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to seed storage", zap.Error(err))
		return 1
	}
	logger.Info("storage ready",
		zap.Int("products", products.Len()),
		zap.Int("users", users.Len()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, server.New(cfg, logger, products, users), cfg.ShutdownTimeout); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}

// httpServer is the part of server.Server that serve drives.
type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until it fails or ctx is done, then shuts it down within
// shutdownTimeout.
func serve(ctx context.Context, srv httpServer, shutdownTimeout time.Duration) error {
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	select {
	case err := <-errs:
		if err == nil {
			err = errors.New("server exited unexpectedly")
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return <-errs
}

// newStorages creates the products and users collections, seeded from
// seedFile when it is set.
func newStorages(
	seedFile string,
) (*storage.MemoryStorage[model.Product], *storage.MemoryStorage[model.User], error) {
	products := storage.NewProductStorage()
	users := storage.NewUserStorage()

	if seedFile == "" {
		return products, users, nil
	}

	seed, err := storage.LoadSeedFile(seedFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading seed file: %w", err)
	}
	seed.Apply(products, users)

	return products, users, nil
}
