// Package web provides the HTTP API for uploading annual-account documents
// and reading back records, analyses and exports.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/metrics"
	mw "github.com/JonMunkholm/jaarrekening/internal/web/middleware"
)

// Server is the HTTP server of the extraction service.
type Server struct {
	service   *core.Service
	cfg       *config.Config
	metrics   *metrics.Metrics
	validator *validator.Validate
	router    *chi.Mux
	server    *http.Server

	limiters []*rateLimiter
	ctx      context.Context
	stop     context.CancelFunc
}

// NewServer creates a Server. m may be nil, in which case /metrics is not
// served.
func NewServer(service *core.Service, cfg *config.Config, m *metrics.Metrics) *Server {
	s := &Server{
		service:   service,
		cfg:       cfg,
		metrics:   m,
		validator: newValidator(),
		router:    chi.NewRouter(),
	}
	s.ctx, s.stop = context.WithCancel(context.Background())
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	var rec mw.RequestRecorder
	if s.metrics != nil {
		rec = s.metrics
	}
	s.router.Use(mw.Logger(rec))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst).middleware)
	}
}

func (s *Server) newLimiter(perMinute, burst int) *rateLimiter {
	rl := newRateLimiter(perMinute, burst)
	s.limiters = append(s.limiters, rl)
	return rl
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	uploadLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled && s.cfg.Rate.UploadLimit > 0 {
		uploadLimit = s.newLimiter(s.cfg.Rate.UploadLimit, max(1, s.cfg.Rate.UploadLimit/2)).middleware
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		// Stateless extraction
		r.With(uploadLimit).Post("/extract", s.handleExtract)

		// Upload history across companies
		r.Get("/uploads", s.handleAllUploads)

		r.Get("/companies", s.handleListCompanies)
		r.Route("/companies/{company}", func(r chi.Router) {
			r.Get("/years", s.handleListYears)
			r.Get("/years/{year}", s.handleGetYear)
			r.With(uploadLimit).Post("/years/{year}", s.handleUploadYear)
			r.Delete("/years/{year}", s.handleDeleteYear)

			r.Get("/analysis", s.handleAnalysis)
			r.Get("/report", s.handleReport)
			r.Get("/export", s.handleExport)
			r.Get("/uploads", s.handleCompanyUploads)
		})
	})
}

// Start begins listening on the configured address. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	for _, rl := range s.limiters {
		go rl.cleanup(s.ctx)
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
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
