// Package web provides the HTTP server and JSON handlers for the inventory API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/netinventory/internal/auth"
	"github.com/JonMunkholm/netinventory/internal/config"
	"github.com/JonMunkholm/netinventory/internal/core"
	mw "github.com/JonMunkholm/netinventory/internal/web/middleware"
)

// Inventory is the domain behaviour the handlers need. *core.Service implements it.
type Inventory interface {
	Import(ctx context.Context, req core.ImportRequest) (*core.ImportResult, error)
	ListRecords(ctx context.Context, filter core.RecordFilter, page core.PageRequest) (*core.RecordPage, error)
	ListSessions(ctx context.Context, filter core.SessionFilter) ([]core.ImportSession, error)
	Export(ctx context.Context, region *core.Region, format core.ExportFormat) (*core.ExportFile, error)
	Statistics(ctx context.Context) (*core.Statistics, error)
	CapacityStatistics(ctx context.Context) (*core.CapacityStatistics, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	CreateUser(ctx context.Context, in core.NewUser) (*core.User, error)
	Authenticate(ctx context.Context, email, password string) (*core.User, error)
	ProbeDatabase(ctx context.Context) (*core.ProbeResult, error)
	UploadLimiterStatus() core.UploadLimiterStatus
}

// TokenService issues and verifies bearer tokens. *auth.Tokens implements it.
type TokenService interface {
	Issue(id auth.Identity) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// ReadinessChecker reports whether the database is reachable.
type ReadinessChecker interface {
	CheckReady(ctx context.Context) (status, message string)
}

// DependencyHealth reports the last known state of monitored dependencies.
type DependencyHealth interface {
	Health() map[string]bool
}

// Server is the HTTP server for the inventory API.
type Server struct {
	inv      Inventory
	tokens   TokenService
	ready    ReadinessChecker
	deps     DependencyHealth
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer wires routes and middleware.
func NewServer(inv Inventory, tokens TokenService, ready ReadinessChecker, cfg *config.Config) *Server {
	s := &Server{
		inv:    inv,
		tokens: tokens,
		ready:  ready,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// SetDependencyHealth adds dependency monitor results to the readiness probe.
func (s *Server) SetDependencyHealth(d DependencyHealth) {
	s.deps = d
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(mw.Metrics)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health/live", s.handleLive)
	s.router.Get("/health/ready", s.handleReady)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Get("/db-test", s.handleDBTest)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth(s.tokens))

			r.Get("/data", s.handleListData)
			r.Get("/export", s.handleExport)
			r.Get("/sessions", s.handleListSessions)
			r.Get("/statistics", s.handleStatistics)
			r.Get("/statistics/capacity", s.handleCapacityStatistics)

			upload := r.With()
			if s.cfg.Rate.Enabled {
				upload = r.With(s.newLimiter(s.cfg.Rate.UploadLimit).middleware)
			}
			upload.Post("/upload", s.handleUpload)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(auth.RoleAdmin))
				r.Get("/users", s.handleListUsers)
				r.Post("/users", s.handleCreateUser)
			})
		})
	})
}

func (s *Server) newLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	sc := s.cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}

	slog.Info("starting server", "addr", sc.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders sets hardening headers on every response.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v with status. Encoding errors are only logged since the
// header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
