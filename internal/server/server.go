// Package server assembles the HTTP API: routing, authentication, and
// lifecycle.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"expense-control-plane/backend/internal/platform/httpx"
)

// RouteRegistrar mounts a module's routes on the API router.
type RouteRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// Server is the HTTP server for the expense control plane API.
type Server struct {
	httpServer *http.Server
}

// New builds the router and returns a server listening on addr. All API
// routes sit behind the auth middleware; only the health check is open.
func New(addr string, auth *AuthMiddleware, registrars ...RouteRegistrar) *Server {
	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)
	for _, reg := range registrars {
		reg.RegisterRoutes(api)
	}

	root.Use(requestLogger)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           otelhttp.NewHandler(root, "http.server"),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
