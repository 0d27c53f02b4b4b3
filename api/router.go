package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewAPIRouter builds the debug router with middlewares and routes.
func NewAPIRouter(cfg Config, board *Board) chi.Router {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mh := NewMetricsHandler(board)
	r.Route("/v1", func(sub chi.Router) {
		mh.Routes(sub)
	})

	return r
}

// NewServer wraps the router in an http.Server with the configured timeouts.
func NewServer(addr string, cfg Config, board *Board) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewAPIRouter(cfg, board),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
