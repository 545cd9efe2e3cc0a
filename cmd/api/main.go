package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bodegonapp/bodegon-backend/api/routes"
	"github.com/bodegonapp/bodegon-backend/internal/cart"
	"github.com/bodegonapp/bodegon-backend/internal/catalog"
	"github.com/bodegonapp/bodegon-backend/pkg/config"
	"github.com/bodegonapp/bodegon-backend/pkg/db"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
	"github.com/bodegonapp/bodegon-backend/pkg/metrics"
	"github.com/bodegonapp/bodegon-backend/pkg/migrate"
	"github.com/bodegonapp/bodegon-backend/pkg/pubsub"
	"github.com/bodegonapp/bodegon-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	catalogMetrics := metrics.NewCatalogMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	alertPublisher, err := pubsub.NewAlertPublisher(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ops alert publisher", err)
		os.Exit(1)
	}
	if alertPublisher != nil {
		defer func() {
			if err := alertPublisher.Close(); err != nil {
				logg.Error(context.Background(), "error closing alert publisher", err)
			}
		}()
	}

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		catalog.NewLedgerRepository(dbClient.DB()),
		catalog.NewCategoryRepository(dbClient.DB()),
		alertPublisher,
		catalogMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	categoryService, err := catalog.NewCategoryService(catalog.NewCategoryRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(
		cart.NewRepository(dbClient.DB()),
		catalogService,
		cart.NewRedisFeed(redisClient, logg),
		cart.NewRedisFallback(redisClient, cfg.Cart.CacheMaxAge),
		cartMetrics,
		logg,
		cfg.Cart.ReloadDebounce,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	defer func() {
		if err := cartService.Close(); err != nil {
			logg.Error(context.Background(), "error closing cart service", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			catalogService, categoryService, cartService,
			metricsHandler,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
