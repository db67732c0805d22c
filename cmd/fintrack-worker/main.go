package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	mem "fintrack/internal/sheets/memory"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the activity worker")
		os.Exit(1)
	}

	var writer sheets.ActivityWriter
	if cfg.GoogleSpreadsheetID == "" {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, activity is kept in memory only")
		writer = mem.New()
	} else {
		if err := cfg.ValidateWorker(); err != nil {
			logger.Error("Configuration validation failed", log.FieldError, err)
			os.Exit(1)
		}
		client, err := gsheet.New(context.Background(), gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 15*time.Second, nil)

	activity := worker.NewActivityWorker(writer, logger.WithComponent(log.ComponentWorker).Slog())
	go func() {
		err := amqpClient.ConsumeActivity(ctx, activity.HandleActivity)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			os.Exit(1)
		}
	}()

	logger.Info("Consuming activity events", "queue", cfg.AMQPQueue)
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
