package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"hmiscli/internal/modeling"
)

// HealthResponse reports liveness and run progress
type HealthResponse struct {
	Status  string                 `json:"status"`
	Uptime  string                 `json:"uptime"`
	Models  map[modeling.State]int `json:"models"`
	Running bool                   `json:"running"`
}

// HealthHandler handles GET /healthz
type HealthHandler struct {
	source  StatusSource
	started time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(source StatusSource, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		source:  source,
		started: time.Now(),
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck reports ok while the server is up
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	counts := h.source.Counts()
	render.JSON(w, r, HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Models:  counts,
		Running: counts[modeling.StatePending]+counts[modeling.StateRunning] > 0,
	})
}
