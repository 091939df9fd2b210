package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"poiviewer/internal/api/middleware"
	"poiviewer/internal/bridge"
	"poiviewer/internal/logging"
)

// StreamHandler upgrades GET /session/stream to the session's command
// websocket.
type StreamHandler struct {
	hub            *bridge.Hub
	allowedOrigins []string
}

func NewStreamHandler(hub *bridge.Hub, allowedOrigins []string) *StreamHandler {
	return &StreamHandler{hub: hub, allowedOrigins: allowedOrigins}
}

func (h *StreamHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients) and browser origins on the allow list. "*" allows every origin.
func (h *StreamHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unauthorized origin")
	return false
}

// Stream handles GET /session/stream.
func (h *StreamHandler) Stream(c *gin.Context) {
	session := middleware.GetSessionID(c)

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Warn().Err(err).Str("session", session).Msg("websocket upgrade failed")
		return
	}

	client := bridge.NewClient(h.hub, conn, session)
	if err := h.hub.Register(c.Request.Context(), client); err != nil {
		_ = conn.Close()
		return
	}
	client.Start()
}
