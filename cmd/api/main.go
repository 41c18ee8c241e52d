package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/supplybot/supplybot-backend/api/routes"
	"github.com/supplybot/supplybot-backend/internal/catalog"
	"github.com/supplybot/supplybot-backend/internal/drafts"
	"github.com/supplybot/supplybot-backend/internal/matching"
	"github.com/supplybot/supplybot-backend/internal/notifications"
	"github.com/supplybot/supplybot-backend/pkg/config"
	"github.com/supplybot/supplybot-backend/pkg/db"
	"github.com/supplybot/supplybot-backend/pkg/env"
	"github.com/supplybot/supplybot-backend/pkg/instance"
	"github.com/supplybot/supplybot-backend/pkg/logger"
	"github.com/supplybot/supplybot-backend/pkg/metrics"
	"github.com/supplybot/supplybot-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	matchingMetrics := metrics.NewMatchingMetrics(registry)
	conversionMetrics := metrics.NewConversionMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())

	cache, err := matching.NewCache(catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create matching cache", err)
		os.Exit(1)
	}
	engine, err := matching.NewEngine(cache, catalogRepo, matchingMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create matching engine", err)
		os.Exit(1)
	}
	if err := engine.Rebuild(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to warm the matching snapshot", err)
		os.Exit(1)
	}

	scheduler := drafts.NewScheduler(cfg.Schedule.DefaultTimezone, cfg.Schedule.DefaultSendHour)
	notifier := notifications.NewLogNotifier(logg)

	draftService, err := drafts.NewService(
		dbClient,
		drafts.NewRepository(dbClient.DB()),
		engine,
		catalogRepo,
		scheduler,
		notifier,
		conversionMetrics,
		logg,
		cfg.Matching.SuggestionLimit,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, engine, draftService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
