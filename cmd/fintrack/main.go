package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	client, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to create backend client", log.FieldError, err, "url", cfg.BackendURL)
		os.Exit(1)
	}

	manager := cache.NewManager(logger.Slog())
	sessions, sessionsReady, err := cli.OpenSessionStore(cfg, manager, logger)
	if err != nil {
		logger.Error("Failed to open session store", log.FieldError, err)
		os.Exit(1)
	}

	// Activity export is optional; the UI works without a broker.
	var publisher services.ActivityPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, activity export disabled", log.FieldError, err)
		} else {
			publisher = amqpClient
			logger.Info("Activity export enabled", "exchange", cfg.AMQPExchange)
		}
	}

	stats := cache.NewLRUCache[services.StatsView](cfg.StatsCacheSize, cfg.StatsCacheTTL)
	manager.Register(stats)
	manager.StartCleanup(time.Minute)

	finance := services.NewFinanceService(client, publisher, stats, logger.WithComponent(log.ComponentFinance).Slog())

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Finance:            finance,
		Sessions:           sessions,
		Logger:             logger,
		SessionTTL:         cfg.SessionTTL,
		CookieSecure:       cfg.CookieSecure,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Checks: []apphttp.ReadinessCheck{
			{Name: "backend", Check: client.Ping},
			{Name: "sessions", Check: sessionsReady},
		},
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		manager.Stop()
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := sessions.Close(); err != nil {
			logger.Warn("Failed to close session store", log.FieldError, err)
		}
	})

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend_url", cfg.BackendURL,
		"session_backend", cfg.SessionBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
