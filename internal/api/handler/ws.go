package handler

import (
	"net/http"

	"faithlink/backend/internal/chathub"
	"faithlink/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and upgrades the connection.
// The credential is checked once here; the resolved identity and role are
// bound to the connection for its whole lifetime.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	user, err := h.resolveIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upgrade connection", err)
		return
	}

	client := &chathub.WebSocketClient{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Conn:   conn,
		Hub:    h.Hub,
		Send:   make(chan models.Event, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
