// Package status serves the player's local observability API: current
// canvas state, recent playback spans, a manifest reload trigger, and a
// websocket event stream. It is read-mostly and binds to loopback; it is
// not a management plane.
package status

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// PlayerState exposes the player's current state to the API.
type PlayerState interface {
	Status() v1alpha1.PlayerStatus
	CanvasStatus(id string) (v1alpha1.CanvasStatus, bool)
}

// SpanLog exposes recent playback spans.
type SpanLog interface {
	Recent() []v1alpha1.PlaybackSpan
}

// Reloader forces a manifest re-read.
type Reloader interface {
	Reload() (int, error)
}

type Handler struct {
	state    PlayerState
	spans    SpanLog
	reloader Reloader
	hub      *Hub
	version  string
	logger   zerolog.Logger
}

func NewHandler(state PlayerState, spans SpanLog, reloader Reloader, hub *Hub, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		state:    state,
		spans:    spans,
		reloader: reloader,
		hub:      hub,
		version:  version,
		logger:   logger.With().Str("component", "status-http").Logger(),
	}
}

// Router returns a router pre-configured with all status endpoints mounted at the API root
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api/v1alpha1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	return r
}

// RegisterRoutes mounts all API endpoints on the provided router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.handleGetStatus)
	r.Get("/canvases", h.handleListCanvases)
	r.Get("/canvases/{id}", h.handleGetCanvas)
	r.Get("/spans", h.handleListSpans)
	r.Post("/reload", h.handleReload)
	r.Get("/events", h.ServeWs)
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.state.Status()
	status.Version = h.version
	h.respondJSON(w, http.StatusOK, status)
}

func (h *Handler) handleListCanvases(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.state.Status().Canvases)
}

func (h *Handler) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	canvas, ok := h.state.CanvasStatus(id)
	if !ok {
		h.respondError(w, ErrNotFound("canvas not found: "+id))
		return
	}
	h.respondJSON(w, http.StatusOK, canvas)
}

func (h *Handler) handleListSpans(w http.ResponseWriter, r *http.Request) {
	spans := h.spans.Recent()
	if spans == nil {
		spans = []v1alpha1.PlaybackSpan{}
	}
	h.respondJSON(w, http.StatusOK, spans)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		h.respondError(w, ErrUnavailable("no manifest source configured"))
		return
	}
	count, err := h.reloader.Reload()
	if err != nil {
		h.logger.Error().Err(err).Msg("manifest reload failed")
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int{"items": count})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	msg := "internal server error"

	if he, ok := err.(HTTPError); ok {
		code = he.StatusCode()
		msg = he.Error()
	}

	h.respondJSON(w, code, map[string]string{"error": msg})
}
