package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"civicgo/backend/internal/chathub"
	"civicgo/backend/internal/models"
)

// Client implements the chathub.Client interface over a Telegram chat. The
// read side is handled centrally by BotService.Run; only the write pump
// lives here.
type Client struct {
	SessionID string
	ChatID    int64
	Hub       *chathub.ManagerService
	Send      chan models.ChatMessage
	BotAPI    *tgbotapi.BotAPI
	Log       *zap.Logger
}

// GetUserID returns the stable identity for this chat. Telegram residents
// are never logged into a portal account, so the session id doubles as the
// user id and their reports stay queryable by it.
func (c *Client) GetUserID() string                         { return c.SessionID }
func (c *Client) GetSessionID() string                      { return c.SessionID }
func (c *Client) GetSendChannel() chan<- models.ChatMessage { return c.Send }

// Run starts the write pump.
func (c *Client) Run() {
	go c.writePump()
}

// Close closes the Send channel, which stops the write pump.
func (c *Client) Close() {
	close(c.Send)
}

// writePump drains the Send channel into the Telegram chat.
func (c *Client) writePump() {
	defer c.Log.Info("telegram write pump stopped", zap.String("session", c.SessionID))

	for message := range c.Send {
		switch message.Type {
		case "typing":
			action := tgbotapi.NewChatAction(c.ChatID, tgbotapi.ChatTyping)
			if _, err := c.BotAPI.Request(action); err != nil {
				c.Log.Warn("failed to send chat action", zap.String("session", c.SessionID), zap.Error(err))
			}

		case "text":
			msg := tgbotapi.NewMessage(c.ChatID, message.Content)
			if _, err := c.BotAPI.Send(msg); err != nil {
				c.Log.Error("failed to send telegram message", zap.String("session", c.SessionID), zap.Error(err))
			}

		case "report_update":
			// Broadcast fan-out; only worth relaying when a report was just
			// filed from this very chat, which already got the ack text.
			continue

		default:
			c.Log.Warn("unhandled message type for telegram client",
				zap.String("session", c.SessionID), zap.String("type", message.Type))
		}
	}
}
