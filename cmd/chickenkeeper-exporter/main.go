package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chickenkeeper/internal/amqp"
	"chickenkeeper/internal/config"
	applog "chickenkeeper/internal/log"
	gsheet "chickenkeeper/internal/sheets/google"
	"chickenkeeper/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentExporter,
	})
	applog.SetDefault(logger)

	logger.Info("Starting chickenkeeper-exporter")

	cfg := config.Load()
	if err := cfg.ValidateExporter(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sheetsClient, err := gsheet.New(ctx, cfg.SheetsCredentialsFile, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(sheetsClient)

	logger.Info("Consuming ledger entries", "queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeLedgerEntries(ctx, exportWorker.HandleLedgerEntry); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}

	// Give in-flight handlers a moment before the AMQP channel closes.
	logger.Info("Shutting down exporter...")
	time.Sleep(2 * time.Second)
	logger.Info("Exporter shutdown complete")
}
