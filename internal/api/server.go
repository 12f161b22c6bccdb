package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server combines the HTTP router with the WebSocket hub for real-time
// world updates.
type Server struct {
	world       WorldInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// ServerConfig tunes the server surface.
type ServerConfig struct {
	MaxQueryResults int
	FrameWidth      int
	FrameHeight     int
	RateLimitConfig *RateLimitConfig
	CORSOrigins     []string
}

// NewServer creates an API server over a world.
//
// No goroutines start and no listeners open until Start() is called, so
// tests can construct a server and drive Router() through httptest.
func NewServer(world WorldInterface, cfg ServerConfig) *Server {
	s := &Server{
		world: world,
		wsHub: NewWebSocketHub(),
	}

	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	s.rateLimiter = NewIPRateLimiter(rateLimitCfg)

	s.router = NewRouter(RouterConfig{
		World:           world,
		MaxQueryResults: cfg.MaxQueryResults,
		FrameWidth:      cfg.FrameWidth,
		FrameHeight:     cfg.FrameHeight,
		RateLimiter:     s.rateLimiter,
		CORSOrigins:     cfg.CORSOrigins,
	})

	// The hub route needs the hub instance, so it lives outside NewRouter.
	s.router.Get("/ws", s.handleWS)

	return s
}

// Start runs the hub, the stats broadcast loop, and the HTTP listener.
// Blocks until the listener fails.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.world)

	log.Printf("api server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub exposes the WebSocket hub so callers can broadcast custom events.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Stop shuts down background workers.
func (s *Server) Stop() {
	s.wsHub.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
