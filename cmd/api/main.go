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
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/searoute/internal/adapters/http"
	"github.com/samirrijal/searoute/internal/adapters/memory"
	natsadapter "github.com/samirrijal/searoute/internal/adapters/nats"
	"github.com/samirrijal/searoute/internal/adapters/postgres"
	"github.com/samirrijal/searoute/internal/adapters/routing"
	"github.com/samirrijal/searoute/internal/adapters/valkey"
	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/ports"
	"github.com/samirrijal/searoute/internal/core/usecases"
	"github.com/samirrijal/searoute/internal/pkg/config"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
	"github.com/samirrijal/searoute/internal/pkg/logging"
	"github.com/samirrijal/searoute/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("searoute-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Catalogue: PostgreSQL when enabled, built-in otherwise
	var (
		db        *postgres.DB
		portRepo  ports.PortRepository      = memory.NewPortRepo(nil)
		coastRepo ports.CoastlineRepository = memory.NewCoastlineRepo(nil)
	)
	if cfg.Database.Enabled {
		db, err = postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		go db.ReportPoolStats(ctx, 15*time.Second)
		portRepo = postgres.NewPortRepo(db)
		coastRepo = postgres.NewCoastlineRepo(db)
	}

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, "searoute:")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, voyage events will not be published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Route service, cached when Valkey is up
	var routes ports.RouteProvider = routing.NewClient(cfg.Routing.URL, cfg.Routing.Timeout())
	if cacheSvc != nil && cfg.Routing.CacheTTLSeconds > 0 {
		routes = routing.NewCachedProvider(routes, cacheSvc, cfg.Routing.CacheTTLSeconds)
	}

	sessionCfg, err := sessionConfig(cfg.Simulation)
	if err != nil {
		log.Fatalf("simulation config: %v", err)
	}

	// Use cases
	voyageDeps := usecases.VoyageDeps{
		Routes:    routes,
		Publisher: publisher,
		Sampler:   hazard.NewRandomSampler(cfg.Simulation.Ranges, nil),
		Placer:    hazard.NewPlacer(cfg.Simulation.PlacedRadiusKm, nil),
	}
	voyageSvc := usecases.NewVoyageService(sessionCfg, voyageDeps,
		usecases.WithMaxVoyages(cfg.Simulation.MaxVoyages),
		usecases.WithIdleTTL(cfg.Simulation.IdleTTL()),
	)
	defer voyageSvc.Shutdown()
	go voyageSvc.RunSweeper(ctx, time.Minute)
	catalogueSvc := usecases.NewCatalogueService(portRepo, coastRepo, cacheSvc)

	deps := &http.Dependencies{
		Voyages:            voyageSvc,
		Catalogue:          catalogueSvc,
		CruisingSpeedKnots: cfg.Simulation.CruisingSpeedKnots,
		Version:            version,
		NATS:               natsConn,
		DB:                 db,
		Cache:              cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "SeaRoute API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "routing_url", cfg.Routing.URL)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// sessionConfig turns the simulation settings into session constants.
func sessionConfig(sim config.SimulationConfig) (usecases.SessionConfig, error) {
	start, err := domain.ParseWaypoint(sim.DefaultStart)
	if err != nil {
		return usecases.SessionConfig{}, fmt.Errorf("default_start: %w", err)
	}
	end, err := domain.ParseWaypoint(sim.DefaultEnd)
	if err != nil {
		return usecases.SessionConfig{}, fmt.Errorf("default_end: %w", err)
	}
	return usecases.SessionConfig{
		CruisingSpeedKnots: sim.CruisingSpeedKnots,
		TickInterval:       sim.TickInterval(),
		HazardCount:        sim.HazardCount,
		PlacementBounds:    sim.Bounds,
		DynamicRadiusKm:    sim.DynamicRadiusKm,
		DefaultStart:       start,
		DefaultEnd:         end,
		DefaultShipType:    sim.DefaultShipType,
		DefaultSensitivity: sim.DefaultSensitivity,
	}, nil
}
