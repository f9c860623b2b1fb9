// Package telegram is the second intake transport: residents can file the
// same complaints and permit requests by messaging the municipal bot. Every
// Telegram chat maps onto one dialogue session routed through the hub.
package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"civicgo/backend/internal/chathub"
	"civicgo/backend/internal/models"
)

// BotService receives Telegram updates and routes them to the hub.
type BotService struct {
	BotAPI *tgbotapi.BotAPI
	Hub    *chathub.ManagerService
	log    *zap.Logger
}

// NewBotService authenticates against the Bot API and builds the service.
func NewBotService(token string, hub *chathub.ManagerService, log *zap.Logger) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Info("telegram bot authorized", zap.String("account", bot.Self.UserName))

	return &BotService{
		BotAPI: bot,
		Hub:    hub,
		log:    log,
	}, nil
}

// sessionID derives the hub session id for a Telegram chat. The prefix keeps
// bot sessions from colliding with web session ids.
func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// getOrCreateClient returns the hub client for a chat, registering a new one
// on first contact.
func (s *BotService) getOrCreateClient(chatID int64) *Client {
	id := sessionID(chatID)
	if existing, ok := s.Hub.Client(id); ok {
		if client, ok := existing.(*Client); ok {
			return client
		}
		s.log.Error("session bound to a non-telegram client", zap.String("session", id))
		return nil
	}

	client := &Client{
		SessionID: id,
		ChatID:    chatID,
		Hub:       s.Hub,
		Send:      make(chan models.ChatMessage, 10),
		BotAPI:    s.BotAPI,
		Log:       s.log,
	}
	s.Hub.RegisterCh <- client
	client.Run()
	return client
}

// extractMessageContent uniformly extracts text or a caption from a message.
func extractMessageContent(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

// handleIncomingMessage forwards one resident message into the hub. The bot
// only understands text; photos and stickers get a polite nudge.
func (s *BotService) handleIncomingMessage(msg *tgbotapi.Message) {
	client := s.getOrCreateClient(msg.Chat.ID)
	if client == nil {
		return
	}

	content := extractMessageContent(msg)
	if content == "" {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "I can only process text. Please describe your issue in a message.")
		if _, err := s.BotAPI.Send(reply); err != nil {
			s.log.Error("failed to send unsupported-type notice", zap.Error(err))
		}
		return
	}

	s.Hub.IncomingCh <- models.ChatMessage{
		SenderID:  client.GetUserID(),
		SessionID: client.GetSessionID(),
		Content:   content,
		Type:      "text",
	}
}

// Run is the main loop for receiving Telegram updates.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.Message != nil:
			if update.Message.IsCommand() && update.Message.Command() == "start" {
				// /start opens the same conversation the web greeting does.
				s.handleStartCommand(update.Message.Chat.ID)
				continue
			}
			s.handleIncomingMessage(update.Message)
		case update.EditedMessage != nil:
			// An edit re-runs the turn with the corrected text.
			s.handleIncomingMessage(update.EditedMessage)
		}
	}
}

func (s *BotService) handleStartCommand(chatID int64) {
	client := s.getOrCreateClient(chatID)
	if client == nil {
		return
	}
	s.Hub.IncomingCh <- models.ChatMessage{
		SenderID:  client.GetUserID(),
		SessionID: client.GetSessionID(),
		Content:   "hello",
		Type:      "text",
	}
}
