package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hmiscli/internal/middleware"
)

// NewRouter builds the status API. metrics may be nil, in which case
// /metrics is not mounted.
func NewRouter(source StatusSource, metrics http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/healthz", NewHealthHandler(source, logger).HealthCheck)
		r.Mount("/models", NewModelsHandler(source, logger).Routes())
	})
	return r
}
