package chathub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"civicgo/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements the chathub.Client interface for the embedded
// chat widget.
type WebSocketClient struct {
	SessionID string
	UserID    string
	Conn      *websocket.Conn
	Hub       *ManagerService
	Send      chan models.ChatMessage
	Log       *zap.Logger
}

func (c *WebSocketClient) GetUserID() string                         { return c.UserID }
func (c *WebSocketClient) GetSessionID() string                      { return c.SessionID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ChatMessage { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. The read pump
// stops itself when the connection closes.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Warn("websocket read error", zap.String("session", c.SessionID), zap.Error(err))
			}
			break
		}

		var msg models.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.Log.Warn("dropping malformed client message", zap.String("session", c.SessionID), zap.Error(err))
			continue
		}

		// The session and sender are decided at upgrade time, never by the
		// client payload.
		msg.SessionID = c.SessionID
		msg.SenderID = c.UserID

		c.Hub.IncomingCh <- msg
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				c.Log.Error("failed to encode message", zap.String("session", c.SessionID), zap.Error(err))
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Drain whatever else is already queued into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, _ := json.Marshal(next)
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
