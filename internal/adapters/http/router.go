package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/souzafcharles/spatialdata/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// LegacySunset is when the unversioned /api/spatial-data routes go away.
var LegacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

var legacyRoutes = []DeprecatedRoute{
	{Path: "/api/spatial-data", SunsetDate: LegacySunset, Alternative: "/v1/spatial-data"},
	{Path: "/api/spatial-data/serializer", SunsetDate: LegacySunset, Alternative: "/v1/spatial-data/serializer"},
	{Path: "/api/spatial-data/deserializer", SunsetDate: LegacySunset, Alternative: "/v1/spatial-data/deserializer"},
	{Path: "/api/spatial-data/:id", SunsetDate: LegacySunset, Alternative: "/v1/spatial-data/:id"},
	{Path: "/api/spatial-data/:id/geojson", SunsetDate: LegacySunset, Alternative: "/v1/spatial-data/:id/geojson"},
}

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1/spatial-data")
	registerSpatialRoutes(v1, deps, ListSpatialDataHandler(deps))

	legacy := app.Group("/api/spatial-data", DeprecationMiddleware(legacyRoutes))
	registerSpatialRoutes(legacy, deps, LegacyListSpatialDataHandler(deps))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	SetupDocs(app, deps.DocsPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

func registerSpatialRoutes(r fiber.Router, deps *Dependencies, list fiber.Handler) {
	r.Post("/", withTimeout(CreateSpatialDataHandler(deps)))
	r.Post("/serializer", withTimeout(CreateSerializedHandler(deps)))
	r.Post("/deserializer", withTimeout(CreateDeserializedHandler(deps)))
	r.Get("/", withTimeout(list))
	r.Get("/:id", withTimeout(GetSpatialDataHandler(deps)))
	r.Get("/:id/geojson", withTimeout(PolygonGeoJSONHandler(deps)))
}
