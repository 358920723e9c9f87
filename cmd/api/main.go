package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/briankemboi/dukapos-backend/api/routes"
	"github.com/briankemboi/dukapos-backend/internal/auth"
	"github.com/briankemboi/dukapos-backend/internal/categories"
	"github.com/briankemboi/dukapos-backend/internal/earnings"
	"github.com/briankemboi/dukapos-backend/internal/expenses"
	"github.com/briankemboi/dukapos-backend/internal/products"
	"github.com/briankemboi/dukapos-backend/internal/salaries"
	"github.com/briankemboi/dukapos-backend/internal/sales"
	"github.com/briankemboi/dukapos-backend/internal/shops"
	"github.com/briankemboi/dukapos-backend/internal/users"
	"github.com/briankemboi/dukapos-backend/pkg/auth/session"
	"github.com/briankemboi/dukapos-backend/pkg/config"
	"github.com/briankemboi/dukapos-backend/pkg/db"
	"github.com/briankemboi/dukapos-backend/pkg/logger"
	"github.com/briankemboi/dukapos-backend/pkg/metrics"
	"github.com/briankemboi/dukapos-backend/pkg/migrate"
	"github.com/briankemboi/dukapos-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	businessMetrics := metrics.NewBusinessMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	shopsRepo := shops.NewRepository(gormDB)
	categoriesRepo := categories.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	salesRepo := sales.NewRepository(gormDB)
	earningsRepo := earnings.NewRepository(gormDB)
	expensesRepo := expenses.NewRepository(gormDB)
	salariesRepo := salaries.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, shopsRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	shopsService, err := shops.NewService(shopsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create shops service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categoriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo, shopsRepo, categoriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(salesRepo, productsRepo, dbClient, logg, businessMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	earningsService, err := earnings.NewService(earningsRepo, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create earnings service", err)
		os.Exit(1)
	}

	expensesService, err := expenses.NewService(expensesRepo, shopsRepo, businessMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create expenses service", err)
		os.Exit(1)
	}

	salariesService, err := salaries.NewService(salariesRepo, usersRepo, businessMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create salaries service", err)
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

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, httpMetrics, routes.Services{
		Auth:       authService,
		Users:      usersService,
		Shops:      shopsService,
		Categories: categoriesService,
		Products:   productsService,
		Sales:      salesService,
		Earnings:   earningsService,
		Expenses:   expensesService,
		Salaries:   salariesService,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
