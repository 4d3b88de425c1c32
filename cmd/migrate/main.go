// Package main applies or inspects the embedded database migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"rms/internal/config"
	"rms/internal/infrastructure/storage/postgres"
	"rms/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("RMS_CONFIG"), "path to a YAML config file")
	command := flag.String("command", "up", "migration command: up, down, status, reset")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.IsDevelopment()})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	cmd := postgres.MigrationCommand(*command)
	if err := postgres.Migrate(ctx, pool.Unwrap(), cmd); err != nil {
		log.Fatalw("migration failed", "command", cmd, "error", err)
	}
	log.Infow("migration finished", "command", cmd)
}
