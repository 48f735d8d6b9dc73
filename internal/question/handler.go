package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler is the HTTP API layer for the QuestionService.
type Handler struct {
	service Service
}

// NewHandler creates a new handler injecting the service.
func NewHandler(s Service) *Handler {
	return &Handler{
		service: s,
	}
}

// RegisterRoutes attaches the question endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Called by the chat widget
	r.Post("/api/questions", h.handleAsk)

	r.Get("/api/questions", h.handleListQuestions)
	r.Get("/api/questions/{id}", h.handleGetQuestion)
	r.Put("/api/questions/{id}", h.handleUpdateQuestion)
	r.Delete("/api/questions/{id}", h.handleDeleteQuestion)

	// Used by bea-admin to curate answers
	r.Post("/admin/questions", h.handleCreateQuestion)
	r.Get("/admin/questions", h.handleListQuestions)
	r.Put("/admin/questions/{id}", h.handleUpdateQuestion)
	r.Delete("/admin/questions/{id}", h.handleDeleteQuestion)
}

// --- DTOs ---

// questionRequest is the body for asking, creating and updating.
// When asking, answertext is ignored.
type questionRequest struct {
	QuestionText string `json:"questiontext"`
	AnswerText   string `json:"answertext"`
}

// --- Handlers ---

// handleAsk answers a visitor question.
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	q, err := h.service.Ask(r.Context(), req.QuestionText)
	if err != nil {
		writeServiceError(w, err, "Could not answer question")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	q, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Could not fetch question")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	q, err := h.service.CreateQuestion(r.Context(), req.QuestionText, req.AnswerText)
	if err != nil {
		writeServiceError(w, err, "Could not create question")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	q, err := h.service.UpdateQuestion(r.Context(), id, req.QuestionText, req.AnswerText)
	if err != nil {
		writeServiceError(w, err, "Could not update question")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		writeServiceError(w, err, "Could not delete question")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// questionID parses the {id} path parameter, writing a 400 when it is not a number.
func questionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid question id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors to statuses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, ErrInvalidQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
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
