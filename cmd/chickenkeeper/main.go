package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"chickenkeeper/internal/amqp"
	"chickenkeeper/internal/analytics"
	"chickenkeeper/internal/config"
	apphttp "chickenkeeper/internal/http"
	applog "chickenkeeper/internal/log"
	"chickenkeeper/internal/storage"
	"chickenkeeper/internal/store"
	"chickenkeeper/internal/weather"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer db.Close()

	// A corrupt or missing slot starts that collection empty instead of
	// failing startup.
	reminders, remRes := db.LoadReminders(ctx)
	incomes, incRes := db.LoadIncomes(ctx)
	expenses, expRes := db.LoadExpenses(ctx)
	for slot, res := range map[string]storage.LoadResult{
		storage.SlotReminders: remRes,
		storage.SlotIncomes:   incRes,
		storage.SlotExpenses:  expRes,
	} {
		if res.Status == storage.LoadCorrupt {
			logger.Warn("Stored collection unreadable, starting empty",
				"slot", slot, "reason", res.Reason)
		}
	}

	ledger := store.NewLedger(db, reminders, incomes, expenses)
	engine := analytics.NewEngine(ledger)

	var weatherClient apphttp.WeatherSource
	if cfg.WeatherAPIKey != "" {
		weatherClient = weather.NewClient(weather.Config{
			BaseURL:   cfg.WeatherBaseURL,
			APIKey:    cfg.WeatherAPIKey,
			Latitude:  cfg.WeatherLatitude,
			Longitude: cfg.WeatherLongitude,
		})
		logger.Info("Weather lookup enabled",
			"lat", cfg.WeatherLatitude, "lon", cfg.WeatherLongitude)
	} else {
		logger.Info("Weather lookup disabled - no OPENWEATHER_API_KEY provided")
	}

	var publisher apphttp.LedgerPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Ledger export enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger export disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger, engine, weatherClient, publisher, cfg.WeatherCacheTTL)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting chickenkeeper server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
