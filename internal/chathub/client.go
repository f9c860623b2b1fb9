package chathub

import "civicgo/backend/internal/models"

// Client is the interface for any type of connection (e.g., WebSocket,
// Telegram). It abstracts the underlying transport, allowing the hub to
// manage different client types uniformly.
type Client interface {
	// GetUserID returns the registered user behind the client, or "" for an
	// anonymous visitor.
	GetUserID() string
	// GetSessionID returns the intake conversation the client belongs to.
	GetSessionID() string

	// GetSendChannel returns the channel through which the hub delivers
	// messages to this client. It is a send-only channel.
	GetSendChannel() chan<- models.ChatMessage

	// Run starts whatever pumps the transport needs for reading and writing.
	Run()
	// Close shuts down the client's connection and associated channels.
	Close()
}
