package widget

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// contextKey is a private type to avoid key collisions in the context.
type contextKey string

const sessionIDKey = contextKey("widget_session_id")

// SetSessionID returns a new request with the widget session ID added to its context.
func SetSessionID(r *http.Request, id uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, id)
	return r.WithContext(ctx)
}

// GetSessionID retrieves the widget session ID from the context.
func GetSessionID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(sessionIDKey).(uuid.UUID)
	if !ok {
		// The route is missing the sessionCtx middleware.
		return uuid.Nil, fmt.Errorf("no widget session ID in context")
	}
	return id, nil
}

// sessionCtx parses the {id} URL parameter and stores it in the request context.
func sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid session id")
			return
		}
		next.ServeHTTP(w, SetSessionID(r, id))
	})
}
