package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", apiVersion)
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Reference data
	v1 := app.Group("/v1")
	v1.Get("/ports", timeout.NewWithContext(ListPortsHandler(deps), requestTimeout))
	v1.Get("/ports/:id", timeout.NewWithContext(GetPortHandler(deps), requestTimeout))
	v1.Get("/coastlines", timeout.NewWithContext(ListCoastlinesHandler(deps), requestTimeout))

	// Voyage sessions. Route calls reach the route service, so they get the timeout.
	v1.Post("/voyages", CreateVoyageHandler(deps))
	v1.Get("/voyages", ListVoyagesHandler(deps))
	v1.Get("/voyages/:id", GetVoyageHandler(deps))
	v1.Delete("/voyages/:id", DeleteVoyageHandler(deps))
	v1.Post("/voyages/:id/route", timeout.NewWithContext(CalculateRouteHandler(deps), requestTimeout))
	v1.Post("/voyages/:id/hazards", timeout.NewWithContext(SimulateHazardsHandler(deps), requestTimeout))
	v1.Post("/voyages/:id/simulation", StartSimulationHandler(deps))
	v1.Post("/voyages/:id/reset", ResetVoyageHandler(deps))

	// Stateless calculators
	v1.Post("/geodesy/distance", DistanceHandler(deps))
	v1.Post("/hazards/classify", ClassifyHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
