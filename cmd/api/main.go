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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/farmbatch-backend/api/routes"
	"github.com/angelmondragon/farmbatch-backend/internal/batches"
	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/farmers"
	"github.com/angelmondragon/farmbatch-backend/internal/hubs"
	"github.com/angelmondragon/farmbatch-backend/internal/orders"
	"github.com/angelmondragon/farmbatch-backend/internal/packing"
	"github.com/angelmondragon/farmbatch-backend/internal/payments"
	"github.com/angelmondragon/farmbatch-backend/internal/payouts"
	"github.com/angelmondragon/farmbatch-backend/internal/procurement"
	"github.com/angelmondragon/farmbatch-backend/internal/products"
	"github.com/angelmondragon/farmbatch-backend/internal/stats"
	"github.com/angelmondragon/farmbatch-backend/pkg/authz"
	"github.com/angelmondragon/farmbatch-backend/pkg/config"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
	"github.com/angelmondragon/farmbatch-backend/pkg/metrics"
	"github.com/angelmondragon/farmbatch-backend/pkg/migrate"
	"github.com/angelmondragon/farmbatch-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
	lifecycle := metrics.NewLifecycle(registry)

	enforcer, err := authz.New(authz.DefaultPolicies)
	if err != nil {
		logg.Error(context.Background(), "failed to build authorization policies", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, dbClient, redisClient, lifecycle)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, enforcer, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, lifecycle *metrics.Lifecycle) (routes.Services, error) {
	conn := dbClient.DB()

	events, err := eventlog.NewService(eventlog.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	hubService, err := hubs.NewService(hubs.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	farmerService, err := farmers.NewService(farmers.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	productService, err := products.NewService(products.NewRepository(conn), farmerService)
	if err != nil {
		return routes.Services{}, err
	}
	batchService, err := batches.NewService(batches.ServiceParams{
		Repo:     batches.NewRepository(conn),
		Tx:       dbClient,
		Events:   events,
		Hubs:     hubService,
		Products: productService,
		Metrics:  lifecycle,
		Logger:   logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(conn),
		Tx:      dbClient,
		Events:  events,
		Metrics: lifecycle,
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:    payments.NewRepository(conn),
		Tx:      dbClient,
		Events:  events,
		Metrics: lifecycle,
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	packingService, err := packing.NewService(packing.ServiceParams{
		Repo:    packing.NewRepository(conn),
		Tx:      dbClient,
		Events:  events,
		Metrics: lifecycle,
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	procurementService, err := procurement.NewService(procurement.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	payoutService, err := payouts.NewService(payouts.ServiceParams{
		Repo:    payouts.NewRepository(conn),
		Tx:      dbClient,
		Events:  events,
		Metrics: lifecycle,
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	statsCache, err := stats.NewCache(redisClient, cfg.Stats.CacheTTL)
	if err != nil {
		return routes.Services{}, err
	}
	statsService, err := stats.NewService(stats.NewRepository(conn), statsCache, logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Hubs:        hubService,
		Farmers:     farmerService,
		Products:    productService,
		Batches:     batchService,
		Orders:      orderService,
		Payments:    paymentService,
		Packing:     packingService,
		Procurement: procurementService,
		Payouts:     payoutService,
		Stats:       statsService,
		Events:      events,
	}, nil
}
