package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swiftdrop/dispatch-backend/internal/agents"
	"github.com/swiftdrop/dispatch-backend/internal/cron"
	"github.com/swiftdrop/dispatch-backend/internal/dispatch"
	"github.com/swiftdrop/dispatch-backend/internal/orders"
	"github.com/swiftdrop/dispatch-backend/pkg/config"
	"github.com/swiftdrop/dispatch-backend/pkg/db"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
	"github.com/swiftdrop/dispatch-backend/pkg/metrics"
	"github.com/swiftdrop/dispatch-backend/pkg/migrate"
	"github.com/swiftdrop/dispatch-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "dispatch-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "dispatch-worker"

	logg = logger.New(logger.Options{
		ServiceName: "dispatch-worker",
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

	allocationJob, err := cron.NewAllocationJob(cron.AllocationJobParams{
		Logger: logg,
		Engine: engine,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create allocation job", err)
		os.Exit(1)
	}

	dayResetJob, err := cron.NewDayResetJob(cron.DayResetJobParams{
		Logger: logg,
		DB:     dbClient,
		Orders: orders.NewRepository(dbClient.DB()),
		Agents: agents.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create day reset job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("dispatch-worker"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	// Day reset runs before allocation so yesterday's postponed orders are
	// back in the pending queue when today's run starts.
	registry := cron.NewRegistry()
	registry.Register(dayResetJob)
	registry.Register(allocationJob)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Dispatch.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting dispatch worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "dispatch worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "dispatch worker shutting down gracefully")
}
