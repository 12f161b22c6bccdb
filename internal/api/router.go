package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"octoscene/internal/mathx"
	"octoscene/internal/octree"
	"octoscene/internal/scene"
)

// WorldInterface defines the world methods used by the API. The interface
// enables mocking for tests without spinning up the tick loop. Keep this
// minimal - only include methods the API layer actually calls.
type WorldInterface interface {
	// Snapshot returns an immutable copy of the world state
	Snapshot() scene.WorldSnapshot
	// OctreeStats returns octree occupancy counters
	OctreeStats() octree.Stats
	// BodyCount returns the number of live bodies
	BodyCount() int
	// TickCount returns completed ticks
	TickCount() int64
	// Bounds returns the world bounds
	Bounds() mathx.BoundingBox
	// AddBody creates and indexes a body
	AddBody(spec scene.BodySpec) (scene.BodySnapshot, error)
	// RemoveBody detaches a body, false for unknown ids
	RemoveBody(id uint32) bool
	// MoveBody repositions a body
	MoveBody(id uint32, center mathx.Vector3) bool
	// SetVelocity changes a body's velocity
	SetVelocity(id uint32, velocity mathx.Vector3) bool
	// Body returns one body snapshot
	Body(id uint32) (scene.BodySnapshot, bool)

	// Query operations, one per octree query shape
	QueryPoint(p mathx.Vector3, flags uint8, viewMask uint32) []scene.BodySnapshot
	QuerySphere(s mathx.Sphere, flags uint8, viewMask uint32) []scene.BodySnapshot
	QueryBox(box mathx.BoundingBox, flags uint8, viewMask uint32) []scene.BodySnapshot
	QueryFrustum(f mathx.Frustum, flags uint8, viewMask uint32) []scene.BodySnapshot
	QueryAll(flags uint8, viewMask uint32) []scene.BodySnapshot
	Raycast(ray mathx.Ray, maxDistance float64, flags uint8, viewMask uint32) []scene.RayHit
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability:
//
//	cfg := api.RouterConfig{
//	    World: world,
//	    RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// World is the scene world (required)
	World WorldInterface

	// MaxQueryResults truncates query responses; zero means unlimited.
	MaxQueryResults int

	// FrameWidth/FrameHeight size the debug frame endpoint.
	FrameWidth  int
	FrameHeight int

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, localhost-only defaults are used.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// This function is PURE - no goroutines are started and no listeners are
// opened (the rate limiter passed in may own a cleanup goroutine), which
// makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS to reject early and save CPU
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &handlers{
		world:           cfg.World,
		maxQueryResults: cfg.MaxQueryResults,
		frameWidth:      cfg.FrameWidth,
		frameHeight:     cfg.FrameHeight,
	}

	r.Route("/api", func(r chi.Router) {
		// World state
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)

		// Body management
		r.Post("/bodies", h.handleAddBody)
		r.Get("/bodies/{id}", h.handleGetBody)
		r.Delete("/bodies/{id}", h.handleRemoveBody)
		r.Post("/bodies/{id}/move", h.handleMoveBody)
		r.Post("/bodies/{id}/velocity", h.handleSetVelocity)

		// Spatial queries
		r.Post("/query", h.handleQuery)

		// Debug rendering
		r.Get("/debug/frame.png", h.handleDebugFrame)
	})

	return r
}
