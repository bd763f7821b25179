// The alertworker consumes market ticks from Kafka and triggers matching
// price alerts out of band, so alerts fire even when nobody polls the API.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/finchley/papertrade/internal/config"
	"github.com/finchley/papertrade/internal/feed"
	"github.com/finchley/papertrade/internal/store"
	"github.com/finchley/papertrade/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if len(cfg.Kafka.Brokers) == 0 {
		slog.Error("KAFKA_BROKERS must be set for the alert worker")
		os.Exit(1)
	}

	db, err := store.Open(cfg.Database.URL)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	consumer := feed.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, db)
	if err := consumer.Start(); err != nil {
		slog.Error("Failed to start consumer", "error", err)
		os.Exit(1)
	}

	slog.Info("Alert worker running", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down alert worker")
	consumer.Stop()
	slog.Info("Alert worker stopped")
}
