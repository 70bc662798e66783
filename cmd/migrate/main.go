package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/souzafcharles/spatialdata/internal/adapters/postgres"
	"github.com/souzafcharles/spatialdata/internal/pkg/config"
	"github.com/souzafcharles/spatialdata/internal/pkg/logging"
)

var upMigrations = []string{
	"migrations/001_init_extensions.sql",
	"migrations/002_spatial_data.sql",
}

var downMigrations = []string{
	"migrations/002_spatial_data.down.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("spatialdata-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 1)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var files []string
	switch os.Args[1] {
	case "up":
		files = upMigrations
	case "down":
		files = downMigrations
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}

	if err := apply(ctx, db, files); err != nil {
		log.Fatal(err)
	}
	slog.Info("migrations applied", "direction", os.Args[1], "count", len(files))
}

func apply(ctx context.Context, db *postgres.DB, files []string) error {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		slog.Info("applied", "file", f)
	}
	return nil
}
