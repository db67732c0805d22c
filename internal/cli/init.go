// Package cli provides common initialization shared by the fintrack binaries.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

// SetupLogger builds the process logger at levelName and installs it as
// the slog default. Unknown levels fall back to info.
func SetupLogger(levelName, component string) *log.Logger {
	level, _ := config.ParseLogLevel(levelName)
	logger := log.New(log.ConfigForLevel(level, component))
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenSessionStore returns the configured session store and a readiness
// probe for it. Expired sessions are purged through manager.
func OpenSessionStore(cfg *config.Config, manager *cache.Manager, logger *log.Logger) (storage.SessionStore, func(context.Context) error, error) {
	switch cfg.SessionBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite session store %s: %w", cfg.SQLiteDBPath, err)
		}
		manager.Register(purger(repo, logger))
		logger.Info("Using SQLite session store", "path", cfg.SQLiteDBPath)
		return repo, repo.Ping, nil
	default:
		store := memory.NewStore()
		manager.Register(purger(store, logger))
		logger.Info("Using in-memory session store")
		return store, func(context.Context) error { return nil }, nil
	}
}

func purger(store storage.SessionStore, logger *log.Logger) cache.Cleaner {
	return cache.CleanerFunc(func() int {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		n, err := store.PurgeExpired(ctx, time.Now())
		if err != nil {
			logger.Warn("Failed to purge expired sessions", log.FieldError, err)
			return 0
		}
		return int(n)
	})
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
