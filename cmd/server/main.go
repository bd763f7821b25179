package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/finchley/papertrade/internal/alerts"
	"github.com/finchley/papertrade/internal/auth"
	"github.com/finchley/papertrade/internal/chaos"
	"github.com/finchley/papertrade/internal/chat"
	"github.com/finchley/papertrade/internal/config"
	"github.com/finchley/papertrade/internal/feed"
	"github.com/finchley/papertrade/internal/httpapi"
	"github.com/finchley/papertrade/internal/market"
	"github.com/finchley/papertrade/internal/observability"
	"github.com/finchley/papertrade/internal/portfolio"
	"github.com/finchley/papertrade/internal/session"
	"github.com/finchley/papertrade/internal/store"
	"github.com/finchley/papertrade/internal/stream"
	"github.com/finchley/papertrade/internal/trading"
	"github.com/finchley/papertrade/internal/watchlist"
	"github.com/finchley/papertrade/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

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

	scenario := chaos.NewScenarioManager(cfg.Scenario.ScenariosDir, cfg.Scenario.DataDir, cfg.Scenario.ID)

	marketSvc := market.NewService(db)
	fixtures, err := market.LoadFixtures(scenario.DataPath("stocks.json"))
	if err != nil {
		slog.Error("Failed to load stock fixtures", "error", err)
		os.Exit(1)
	}
	if err := marketSvc.Seed(fixtures); err != nil {
		slog.Error("Failed to seed stocks", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics("papertrade")

	var producer *feed.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = feed.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			slog.Error("Failed to connect Kafka producer, ticks disabled", "error", err)
		} else {
			defer producer.Close()
			marketSvc.SetPublisher(producer)
		}
	}

	hub := stream.NewHub()
	marketSvc.SetBroadcaster(hub)

	chaosRuntime := chaos.NewRuntime(db)
	chaosRuntime.SetMetrics(metrics)

	authSvc := auth.NewService(db, cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.InitialBalance)

	tradingSvc := trading.NewService(db)
	tradingSvc.SetMetrics(metrics)

	alertsSvc := alerts.NewService(db)
	alertsSvc.SetMetrics(metrics)
	alertsSvc.SetDelayGate(chaosRuntime)

	ctx := context.Background()
	sessions := session.NewStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Auth.TokenTTL)
	defer sessions.Close()

	handler := &httpapi.Handler{
		Auth:           authSvc,
		Market:         marketSvc,
		Trading:        tradingSvc,
		Portfolio:      portfolio.NewService(db),
		Watchlist:      watchlist.NewService(db),
		Alerts:         alertsSvc,
		Chaos:          chaosRuntime,
		Scenario:       scenario,
		Sessions:       sessions,
		Chat:           chat.NewClient(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.Model),
		Hub:            hub,
		AdminKey:       cfg.Server.AdminKey,
		MetricsEnabled: cfg.Server.MetricsEnabled,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handler.Router(),
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "scenario", scenario.Current())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
