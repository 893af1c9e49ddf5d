package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is everything the router mounts: the session workflows plus
// the read-only spot queries.
type Service interface {
	SessionService
	SpotQueries
}

// NewRouter wires the session API and operational endpoints.
func NewRouter(svc Service, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return RequestLogger(next, logger)
	})

	r.Get("/health", HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/entries", HandleEntry(svc))
	r.Post("/exits", HandleExit(svc))

	r.Get("/spots/{id}/availability", HandleSpotAvailability(svc))
	r.Get("/spots/count", HandleSpotCount(svc))

	return r
}
