// Package chathub routes chat traffic between connected clients and the
// dialogue engine. One hub instance serves all transports.
package chathub

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"civicgo/backend/internal/dialogue"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"
)

// ManagerService owns the client registry and the central dispatch loop.
type ManagerService struct {
	mu      sync.RWMutex
	clients map[string]Client // keyed by session ID

	IncomingCh   chan models.ChatMessage
	RegisterCh   chan Client
	UnregisterCh chan Client
	PubSubCh     chan models.ChatMessage

	Engine  *dialogue.Engine
	Storage storage.Storage

	log *zap.Logger
}

// NewManagerService constructs the hub.
func NewManagerService(engine *dialogue.Engine, s storage.Storage, log *zap.Logger) *ManagerService {
	return &ManagerService{
		clients:      make(map[string]Client),
		IncomingCh:   make(chan models.ChatMessage),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.ChatMessage),
		Engine:       engine,
		Storage:      s,
		log:          log,
	}
}

// Client returns the registered client for a session. Safe to call from any
// goroutine; the registry is guarded against the Run loop's writes.
func (m *ManagerService) Client(sessionID string) (Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[sessionID]
	return c, ok
}

func (m *ManagerService) addClient(client Client) {
	m.mu.Lock()
	m.clients[client.GetSessionID()] = client
	m.mu.Unlock()
}

// removeClient deletes the registration; found is false when the client was
// not (or no longer) registered.
func (m *ManagerService) removeClient(client Client) (found bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client.GetSessionID()]; !ok {
		return false
	}
	delete(m.clients, client.GetSessionID())
	return true
}

func (m *ManagerService) snapshotClients() []Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out
}

// Run is the hub's main loop. One turn is fully processed before the next
// message is taken off the channel, which keeps dialogue processing
// single-writer per session even under rapid repeated submission.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			m.addClient(client)
			m.log.Info("client registered", zap.String("session", client.GetSessionID()))

		case client := <-m.UnregisterCh:
			if m.removeClient(client) {
				client.Close()
				m.log.Info("client unregistered", zap.String("session", client.GetSessionID()))
			}

		case msg := <-m.IncomingCh:
			m.handleIncoming(msg)

		case msg := <-m.PubSubCh:
			m.fanOut(msg)
		}
	}
}

// handleIncoming runs one dialogue turn and replies to the originating
// client. A typing event precedes the answer so widgets can show their
// indicator while the turn is processed.
func (m *ManagerService) handleIncoming(msg models.ChatMessage) {
	client, ok := m.Client(msg.SessionID)
	if !ok {
		m.log.Warn("message for unknown session dropped", zap.String("session", msg.SessionID))
		return
	}

	m.send(client, models.ChatMessage{
		SessionID: msg.SessionID,
		SenderID:  "system",
		Type:      "typing",
	})

	reply := m.Engine.Process(context.Background(), msg.SessionID, msg.SenderID, msg.Content)

	m.send(client, models.ChatMessage{
		SessionID: msg.SessionID,
		SenderID:  "system",
		Content:   reply.Text,
		Type:      "text",
		ReportID:  reply.ReportID,
	})

	if reply.ReportID != "" {
		update := models.ChatMessage{
			SenderID: "system",
			Type:     "report_update",
			Content:  "New report filed",
			ReportID: reply.ReportID,
		}
		if err := m.Storage.PublishReportUpdate(update); err != nil {
			m.log.Error("failed to publish report update", zap.Error(err))
		}
	}
}

// fanOut delivers a report update to every connected client; widgets decide
// whether the update concerns them.
func (m *ManagerService) fanOut(msg models.ChatMessage) {
	for _, client := range m.snapshotClients() {
		m.send(client, msg)
	}
}

// send delivers without blocking the loop; a client that cannot keep up is
// dropped.
func (m *ManagerService) send(client Client, msg models.ChatMessage) {
	select {
	case client.GetSendChannel() <- msg:
	default:
		if m.removeClient(client) {
			client.Close()
		}
		m.log.Warn("slow client dropped", zap.String("session", client.GetSessionID()))
	}
}

// StartPubSubListener subscribes to the Redis report-update channel and
// feeds the hub loop. Call once, before or after Run.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeReportUpdates()
		defer pubsub.Close()

		for raw := range pubsub.Channel() {
			var msg models.ChatMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				m.log.Error("failed to unmarshal pubsub message", zap.Error(err))
				continue
			}
			m.PubSubCh <- msg
		}
	}()
}
