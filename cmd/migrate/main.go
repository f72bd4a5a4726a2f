package main

// Apply the documents schema:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"
	"strings"

	"docsum-backend/internal/bootstrap"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/storage/db"
	"docsum-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("DATABASE_URL is required")
		os.Exit(1)
	}

	opts := bootstrap.PoolOptions(cfg, db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", nil)
}
