package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate -cmd down  # roll back one version

import (
	"context"
	"flag"
	"os"

	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/telemetry"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, reset or status")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	opts := db.ForMigrations(db.Options(cfg.DB))
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"cmd": *command, "error": err})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"cmd": *command})
}
