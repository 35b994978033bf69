package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/urbanscope/internal/adapters/http"
	natsadapter "github.com/samirrijal/urbanscope/internal/adapters/nats"
	"github.com/samirrijal/urbanscope/internal/adapters/nominatim"
	"github.com/samirrijal/urbanscope/internal/adapters/overpass"
	"github.com/samirrijal/urbanscope/internal/adapters/valkey"
	"github.com/samirrijal/urbanscope/internal/core/ports"
	"github.com/samirrijal/urbanscope/internal/core/usecases"
	"github.com/samirrijal/urbanscope/internal/pkg/config"
	"github.com/samirrijal/urbanscope/internal/pkg/logging"
	"github.com/samirrijal/urbanscope/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("urbanscope-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Upstream data sources
	source := overpass.New(cfg.Overpass.URL, cfg.Overpass.UserAgent,
		time.Duration(cfg.Overpass.Timeout)*time.Second)
	geocoder := nominatim.New(cfg.Nominatim.URL, cfg.Nominatim.UserAgent,
		time.Duration(cfg.Nominatim.Timeout)*time.Second)

	// Cache (optional)
	var cache ports.CacheService
	var pinger http.Pinger
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Namespace)
		if err != nil {
			slog.Warn("valkey unavailable, place lookups are not cached", "error", err)
		} else {
			defer vc.Close()
			cache, pinger = vc, vc
		}
	}

	// NATS (optional)
	var publisher ports.EventPublisher
	var events http.HealthReporter
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, events are not published", "error", err)
		} else {
			defer pub.Close()
			publisher, events = pub, pub
		}

		// Raw NATS connection for WebSocket relay
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	// Use cases
	regionSvc := usecases.NewRegionService(source, publisher, cfg.Overpass.QueryTimeout)
	placeSvc := usecases.NewPlaceService(geocoder, cache)

	deps := &http.Dependencies{
		Regions:        regionSvc,
		Places:         placeSvc,
		NATS:           natsConn,
		Cache:          pinger,
		Events:         events,
		AnalyzeTimeout: time.Duration(cfg.Server.AnalyzeTimeout) * time.Second,
		RateLimit:      cfg.Server.RateLimit,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "urbanscope API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "overpass", cfg.Overpass.URL)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Analyses can run long; give in-flight requests the analysis budget.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.AnalyzeTimeout)*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
