package api

import (
	"log/slog"
	"net/http"

	"motscroises/internal/dictionary"
	"motscroises/internal/solve"
	"motscroises/internal/store"
)

// Config holds API server configuration.
type Config struct {
	Store      store.Store
	Dictionary *dictionary.Index
	SolveOpts  solve.Options
	Logger     *slog.Logger
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg Config) http.Handler {
	handler := NewHandler(cfg.Store, cfg.Dictionary, cfg.SolveOpts, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Store, cfg.SolveOpts)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	mux.HandleFunc("POST /v1/solve", handler.SubmitSolve)
	mux.HandleFunc("GET /v1/solve/{id}", handler.GetSolve)
	mux.HandleFunc("GET /v1/solve", handler.ListSolves)
	mux.HandleFunc("GET /v1/dictionary", handler.LookupWords)

	mux.HandleFunc("POST /admin/v1/solve/sync", adminHandler.SolveSync)
	mux.HandleFunc("DELETE /admin/v1/solve/{id}", adminHandler.DeleteSolve)

	var h http.Handler = mux
	h = CORS(h)
	h = Gzip(h)
	h = Logger(cfg.Logger)(h)
	h = Recover(cfg.Logger)(h)

	return h
}
