package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/souzafcharles/spatialdata/internal/adapters/http"
	natsadapter "github.com/souzafcharles/spatialdata/internal/adapters/nats"
	"github.com/souzafcharles/spatialdata/internal/adapters/postgres"
	"github.com/souzafcharles/spatialdata/internal/adapters/valkey"
	"github.com/souzafcharles/spatialdata/internal/core/ports"
	"github.com/souzafcharles/spatialdata/internal/core/usecases"
	"github.com/souzafcharles/spatialdata/internal/pkg/config"
	"github.com/souzafcharles/spatialdata/internal/pkg/logging"
	"github.com/souzafcharles/spatialdata/internal/pkg/metrics"
	"github.com/souzafcharles/spatialdata/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("spatialdata-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	deps := &http.Dependencies{DB: db}

	// Cache and events are optional; the service runs without them.
	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer c.Close()
		cache = c
		deps.Cache = c
	}

	var publisher ports.EventPublisher
	if p, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer p.Close()
		publisher = p
		deps.NATS = p.Conn()
	}

	svc := usecases.NewSpatialDataService(postgres.NewSpatialDataRepo(db), cache, publisher).
		WithCacheTTL(cfg.Valkey.TTL)
	deps.SpatialData = svc

	if publisher != nil && cache != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, cfg.NATS.Durable)
		if err == nil {
			err = sub.SubscribeSpatialDataCreated(ctx, svc.WarmCache)
		}
		if err != nil {
			slog.Warn("cache warmer disabled", "error", err)
		} else {
			defer sub.Close()
		}
	}

	go reportPoolStats(ctx, db, 15*time.Second)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "Spatial Data API",
		ErrorHandler: http.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(cfg.Server.CORSOrigins),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(db.Stat())
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
