// Copyright (c) 2026 Danmu. All rights reserved.

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sorahq/danmu/internal/adminapi"
	"github.com/sorahq/danmu/internal/compatapi"
	"github.com/sorahq/danmu/internal/platform/constants"
	"github.com/sorahq/danmu/internal/platform/middleware"
	"github.com/sorahq/danmu/internal/webhook"
)

// Handlers groups every domain handler the router mounts. New domains add
// a field here and one Mount call in NewServer — no other change.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
	Admin     *adminapi.Handler
	Compat    *compatapi.Handler
	Webhook   *webhook.Dispatcher
}

// Server owns the HTTP listener and the chi router it serves.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// NewServer assembles the chi router: the global middleware chain, the
// unauthenticated health probes, and every mounted domain route group.
func NewServer(
	ctx context.Context,
	cfg middleware.AppConfig,
	port string,
	log *slog.Logger,
	verifier middleware.TokenVerifier,
	uaChecker middleware.UADenylistChecker,
	h Handlers,
) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(log))
	router.Use(middleware.CORS(cfg))
	router.Use(chimw.CleanPath)
	router.Use(middleware.DenyBlacklistedUA(uaChecker))
	router.Use(middleware.Authenticate(verifier))

	router.NotFound(middleware.NotFoundHandler(log))

	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)

	router.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Mount("/", h.Admin.Routes())
	})

	router.Mount("/api/v2", h.Compat.Routes())
	router.Mount("/api/webhook", h.Webhook.Routes())

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// ListenAndServe blocks serving HTTP until the listener is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests within timeout, then closes the listener.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
