package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/notifications"
)

type WebSocketHandler struct {
	hub      *notifications.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" or an
// empty list allows any origin.
func NewWebSocketHandler(hub *notifications.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if a == "*" || a == origin || a == u.Scheme+"://"+u.Host {
				return true
			}
		}
		return false
	}
}

// ServeWs godoc
// @Summary Notification stream of this browser session
// @Description Upgrades to a websocket; frames are {"type":"TOAST","payload":{message,type,duration}}.
// @Tags notifications
// @Router /ws/notifications [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())
	if sid == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("failed to upgrade websocket connection", "session_id", sid, "error", err)
		return
	}

	if !h.hub.Attach(conn, sid) {
		h.logger.Info("hub stopped, rejecting websocket", "session_id", sid)
		return
	}
	h.logger.Debug("websocket attached", "session_id", sid)
}
