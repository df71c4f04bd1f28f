package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hmiscli/internal/errors"
	"hmiscli/internal/modeling"
)

// StatusSource provides model statuses, satisfied by *modeling.Tracker
type StatusSource interface {
	List() []modeling.Status
	Get(name string) (modeling.Status, bool)
	Counts() map[modeling.State]int
}

// ModelResponse is the JSON form of one model status
type ModelResponse struct {
	Name       string         `json:"name"`
	FeatureSet string         `json:"feature_set"`
	Target     string         `json:"target"`
	Classifier string         `json:"classifier"`
	Features   []string       `json:"features"`
	State      modeling.State `json:"state"`
	ExitCode   int            `json:"exit_code"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Seconds    float64        `json:"duration_seconds"`
}

// NewModelResponse converts a status
func NewModelResponse(s modeling.Status) *ModelResponse {
	resp := &ModelResponse{
		Name:       s.Model.Name,
		FeatureSet: s.Model.FeatureSet,
		Target:     s.Model.Target,
		Classifier: s.Model.Classifier,
		Features:   s.Model.Features,
		State:      s.State,
		ExitCode:   s.ExitCode,
		Error:      s.Error,
		Seconds:    s.Duration().Seconds(),
	}
	if !s.StartedAt.IsZero() {
		resp.StartedAt = &s.StartedAt
	}
	if !s.FinishedAt.IsZero() {
		resp.FinishedAt = &s.FinishedAt
	}
	return resp
}

// Render implements render.Renderer
func (m *ModelResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ModelsHandler serves model statuses
type ModelsHandler struct {
	source StatusSource
	logger *slog.Logger
}

// NewModelsHandler creates a models handler
func NewModelsHandler(source StatusSource, logger *slog.Logger) *ModelsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelsHandler{
		source: source,
		logger: logger.With(slog.String("handler", "models")),
	}
}

// Routes sets up the models routes
func (h *ModelsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{name}", h.Get)
	return r
}

// List handles GET /models
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses := h.source.List()
	list := make([]render.Renderer, 0, len(statuses))
	for _, s := range statuses {
		list = append(list, NewModelResponse(s))
	}
	if err := render.RenderList(w, r, list); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render models", slog.String("error", err.Error()))
	}
}

// Get handles GET /models/{name}
func (h *ModelsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := h.source.Get(name)
	if !ok {
		render.Render(w, r, errors.FromAppError(errors.NewNotFoundError("model "+name)))
		return
	}
	render.Render(w, r, NewModelResponse(s))
}
