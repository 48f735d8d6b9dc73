package widget

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the HTTP API layer for the WidgetService.
type Handler struct {
	service Service
	stream  *streamHandler
}

// NewHandler creates a new handler. allowedOrigins restricts websocket
// upgrades; an empty list accepts any origin.
func NewHandler(s Service, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: s,
		stream:  newStreamHandler(s, allowedOrigins, logger),
	}
}

// RegisterRoutes attaches all widget endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/widget/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(sessionCtx)
			r.Get("/", h.handleGetSession)
			r.Post("/messages", h.handleSubmitMessage)
			r.Post("/toggle", h.handleToggle)
			r.Get("/ws", h.stream.ServeHTTP)
		})
	})
}

// --- DTOs ---

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Snapshot
}

type submitRequest struct {
	Text string `json:"text"`
}

// handleCreateSession starts a new conversation for a page load.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, snap, err := h.service.CreateSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create session")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id.String(), Snapshot: snap})
}

// handleGetSession returns the transcript and the popup state.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := GetSessionID(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing session id")
		return
	}

	snap, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not fetch session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id.String(), Snapshot: snap})
}

// handleSubmitMessage accepts visitor text. The answer arrives later, through
// polling GET /widget/sessions/{id} or the websocket stream.
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	id, err := GetSessionID(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing session id")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	snap, err := h.service.SubmitMessage(r.Context(), id, req.Text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, sessionResponse{SessionID: id.String(), Snapshot: snap})
	case errors.Is(err, ErrEmptyInput):
		// Blank input is ignored, the visitor just gets the unchanged state back.
		writeJSON(w, http.StatusOK, sessionResponse{SessionID: id.String(), Snapshot: snap})
	default:
		writeServiceError(w, err, "Could not submit message")
	}
}

// handleToggle opens or closes the popup.
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := GetSessionID(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing session id")
		return
	}

	snap, err := h.service.ToggleVisibility(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not toggle widget")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id.String(), Snapshot: snap})
}

// writeServiceError maps service errors to statuses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrBusy):
		writeError(w, http.StatusConflict, "An answer is already pending")
	case errors.Is(err, ErrClosed):
		writeError(w, http.StatusGone, "Session closed")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// writeJSON is a helper function for sending json responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for sending a standardized json error.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
