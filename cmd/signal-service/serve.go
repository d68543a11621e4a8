package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tradewatch/signal-service/internal/api"
	"github.com/tradewatch/signal-service/internal/cache"
	"github.com/tradewatch/signal-service/internal/config"
	"github.com/tradewatch/signal-service/internal/database"
	"github.com/tradewatch/signal-service/internal/kafka"
	"github.com/tradewatch/signal-service/internal/logging"
	"github.com/tradewatch/signal-service/internal/metrics"
	"github.com/tradewatch/signal-service/internal/notify"
	"github.com/tradewatch/signal-service/internal/signals"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the signal service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	reg := metrics.NewRegistry()

	var statsCache signals.StatsCache
	var deduper kafka.Deduper
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		statsCache = cache.NewStatsCache(client, cfg.Redis.StatsTTL)
		deduper = cache.NewEventDeduper(client, cfg.Redis.EventTTL)
	}

	var notifier signals.Notifier
	if cfg.Notifier.Telegram.Enabled {
		notifier = notify.NewTelegramNotifier(
			cfg.Notifier.Telegram.BotToken,
			cfg.Notifier.Telegram.ChatID,
			cfg.Notifier.Telegram.APIBase,
			cfg.Notifier.Telegram.Timeout,
			logger,
		)
	}

	var events signals.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer producer.Close()
		events = producer
	}

	service := signals.New(signals.Config{
		Store:               db,
		Notifier:            notifier,
		Events:              events,
		StatsCache:          statsCache,
		Metrics:             reg,
		Logger:              logger,
		ConfidenceThreshold: decimal.NewFromFloat(cfg.Signals.ConfidenceThreshold),
	})

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(
			cfg.Kafka.Brokers, cfg.Kafka.SignalsTopic, cfg.Kafka.GroupID,
			service, deduper, reg, logger,
		)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("kafka consumer stopped")
			}
		}()
	}

	handler := api.NewHandler(service, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.SetupRoutes(handler, reg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
