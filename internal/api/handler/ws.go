package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"civicgo/backend/internal/chathub"
	"civicgo/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is embedded on municipal sites we do not control.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket handles GET /ws. A token is optional: logged-in residents
// pass one (query param or Authorization header) and get their user id bound
// to the session; anonymous visitors get a fresh session id.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c)
	}

	userID := ""
	if token != "" {
		if id, err := h.userIDFromToken(token); err == nil {
			userID = id
		}
	}

	sessionID := c.Query("session")
	if sessionID == "" {
		sessionID = userID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &chathub.WebSocketClient{
		SessionID: sessionID,
		UserID:    userID,
		Conn:      conn,
		Hub:       h.Hub,
		Send:      make(chan models.ChatMessage, 256),
		Log:       h.Log,
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
