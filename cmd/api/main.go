package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swiftdrop/dispatch-backend/api/routes"
	"github.com/swiftdrop/dispatch-backend/internal/agents"
	"github.com/swiftdrop/dispatch-backend/internal/analytics"
	"github.com/swiftdrop/dispatch-backend/internal/dispatch"
	"github.com/swiftdrop/dispatch-backend/internal/orders"
	"github.com/swiftdrop/dispatch-backend/internal/warehouses"
	"github.com/swiftdrop/dispatch-backend/pkg/config"
	"github.com/swiftdrop/dispatch-backend/pkg/db"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
	"github.com/swiftdrop/dispatch-backend/pkg/metrics"
	"github.com/swiftdrop/dispatch-backend/pkg/migrate"
	"github.com/swiftdrop/dispatch-backend/pkg/redis"
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

	warehouseRepo := warehouses.NewRepository(dbClient.DB())
	warehouseService, err := warehouses.NewService(warehouseRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouses service", err)
		os.Exit(1)
	}

	agentService, err := agents.NewService(agents.NewRepository(dbClient.DB()), warehouseRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create agents service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), warehouseRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	engine, err := dispatch.NewEngine(
		dispatch.NewRepository(dbClient.DB()),
		dbClient,
		logg,
		metrics.NewDispatchMetrics(prometheus.DefaultRegisterer),
		dispatch.Params{
			MinutesPerKm:         cfg.Dispatch.MinutesPerKm,
			MaxWorkingHours:      cfg.Dispatch.MaxWorkingHours,
			MaxDrivingDistanceKm: cfg.Dispatch.MaxDrivingDistanceKm,
			WarehouseConcurrency: cfg.Dispatch.WarehouseConcurrency,
		},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch engine", err)
		os.Exit(1)
	}

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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			warehouseService,
			agentService,
			orderService,
			analyticsService,
			engine,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
