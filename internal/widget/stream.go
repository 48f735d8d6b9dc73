package widget

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// streamFrame is what the websocket pushes to the page.
type streamFrame struct {
	Type      string    `json:"type"` // "snapshot" or "error"
	SessionID string    `json:"session_id,omitempty"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// streamHandler upgrades GET /widget/sessions/{id}/ws and keeps the page in
// sync with the session's controller. Text frames {"text": "..."} coming from
// the page are submitted like POST .../messages.
type streamHandler struct {
	service        Service
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

func newStreamHandler(s Service, allowedOrigins []string, logger *slog.Logger) *streamHandler {
	origins := make(map[string]bool)
	for _, o := range allowedOrigins {
		if o != "" {
			origins[o] = true
		}
	}
	h := &streamHandler{service: s, allowedOrigins: origins, logger: logger}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *streamHandler) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients
	}
	return h.allowedOrigins[origin]
}

func (h *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := GetSessionID(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing session id")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before upgrading so unknown sessions still get a plain 404.
	updates, unsubscribe, err := h.service.Subscribe(ctx, id)
	if err != nil {
		writeServiceError(w, err, "Could not open stream")
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", id.String(), "error", err)
		return
	}
	defer conn.Close()

	snap, err := h.service.GetSession(ctx, id)
	if err != nil {
		return
	}
	if err := writeFrame(conn, streamFrame{Type: "snapshot", SessionID: id.String(), Snapshot: &snap}); err != nil {
		return
	}

	rejects := make(chan string, 1)
	go h.readLoop(ctx, cancel, conn, id, rejects)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := writeFrame(conn, streamFrame{Type: "snapshot", SessionID: id.String(), Snapshot: &snap}); err != nil {
				h.logger.Debug("websocket write failed", "session", id.String(), "error", err)
				return
			}
		case msg := <-rejects:
			if err := writeFrame(conn, streamFrame{Type: "error", SessionID: id.String(), Error: msg}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop submits incoming frames. Rejections are handed to the write loop
// through rejects since a gorilla connection allows one concurrent writer.
func (h *streamHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id uuid.UUID, rejects chan<- string) {
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket closed unexpectedly", "session", id.String(), "error", err)
			}
			return
		}

		var in submitRequest
		if err := json.Unmarshal(data, &in); err != nil {
			h.reject(ctx, rejects, "Invalid message format. Send JSON with a 'text' field.")
			continue
		}
		_, err = h.service.SubmitMessage(ctx, id, in.Text)
		switch {
		case err == nil, errors.Is(err, ErrEmptyInput):
		case errors.Is(err, ErrBusy):
			h.reject(ctx, rejects, "An answer is already pending")
		default:
			h.logger.Info("websocket submission rejected", "session", id.String(), "error", err)
			h.reject(ctx, rejects, "Could not submit message")
		}
	}
}

func (h *streamHandler) reject(ctx context.Context, rejects chan<- string, msg string) {
	select {
	case rejects <- msg:
	case <-ctx.Done():
	}
}

func writeFrame(conn *websocket.Conn, f streamFrame) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
