package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/platform/metrics"
)

// NewRouter wires handlers to routes. Reads are public; everything that
// mutates a listing requires a valid token.
func NewRouter(h *Handler, jwtSecret string, m *metrics.MetricsManager, logger *zap.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(Latency(m))

	mux.Get("/api/listings", h.HandleListListings)
	mux.Get("/api/listings/counts", h.HandleGetListingCounts)
	mux.Get("/api/listings/{id}", h.HandleGetListing)
	mux.Post("/api/listings/{id}/view", h.HandleIncrementView)

	mux.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, logger))

		r.Post("/api/listings", h.HandleCreateListing)
		r.Put("/api/listings/{id}", h.HandleUpdateListing)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)
		r.Post("/api/listings/{id}/republish", h.HandleRepublishListing)
		r.Post("/api/listings/expirations/check", h.HandleCheckExpirations)
		r.Post("/api/media", h.HandleUploadMedia)
	})

	return mux
}
