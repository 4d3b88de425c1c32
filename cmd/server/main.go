// Package main is the entry point for the RMS stock and manufacturing API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rms/internal/app"
	"rms/internal/config"
	"rms/internal/domain/auth"
	v1 "rms/internal/infrastructure/http/v1"
	"rms/internal/infrastructure/storage/postgres"
	"rms/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("RMS_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting rms server", "env", cfg.App.Env)

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	if cfg.Metrics.Enabled {
		if err := pool.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
			log.Warnw("pool metrics disabled", "error", err)
		}
	}

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool.Unwrap(), postgres.MigrateUp); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
		log.Info("migrations applied")
	}

	// --- Services ---
	services, err := app.New(ctx, cfg, pool)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}
	services.SettingsCache.Start(ctx)
	defer services.SettingsCache.Stop()

	routerCfg := v1.RouterConfig{
		Logger:           log,
		DB:               services.TxManager,
		MetadataRegistry: setupMetadataRegistry(),
		MetricsEnabled:   cfg.Metrics.Enabled,
		Development:      cfg.IsDevelopment(),
		Services: v1.Services{
			Items:                services.Items,
			ItemGroups:           services.ItemGroups,
			Warehouses:           services.Warehouses,
			BOMs:                 services.BOMs,
			MaterialRequests:     services.MaterialRequests,
			StockEntries:         services.StockEntries,
			StockReconciliations: services.StockReconciliations,
			ProductionOrders:     services.ProductionOrders,
			Registers:            services.Stock,
			Reports:              services.Reports,
		},
	}
	if cfg.Auth.Enabled {
		jwtCfg := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
		jwtCfg.Issuer = cfg.Auth.Issuer
		routerCfg.JWTValidator = auth.NewJWTService(jwtCfg)
	} else {
		log.Warn("authentication is disabled")
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      v1.NewHandler(routerCfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}
	log.Info("server stopped")
}
