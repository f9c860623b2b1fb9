package chathub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"civicgo/backend/internal/chathub"
	"civicgo/backend/internal/dialogue"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/store"
)

func newTestHub(storageMock *MockStorage) *chathub.ManagerService {
	st := store.New(&memPersister{}, zap.NewNop())
	engine := dialogue.New(st, dialogue.NewSequencer(), zap.NewNop())
	return chathub.NewManagerService(engine, storageMock, zap.NewNop())
}

// recv pulls the next message the hub delivered, failing on timeout.
func recv(t *testing.T, c *mockClient) models.ChatMessage {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a hub message")
		return models.ChatMessage{}
	}
}

func TestManager_RegisterUnregister(t *testing.T) {
	hub := newTestHub(new(MockStorage))
	go hub.Run()

	client := newMockClient("session-a", 8)

	hub.RegisterCh <- client
	time.Sleep(100 * time.Millisecond)
	_, ok := hub.Client("session-a")
	assert.True(t, ok)

	hub.UnregisterCh <- client
	time.Sleep(100 * time.Millisecond)
	_, ok = hub.Client("session-a")
	assert.False(t, ok)
	assert.True(t, client.closed)
}

func TestManager_ClientLookupIsSafeDuringRegistrations(t *testing.T) {
	hub := newTestHub(new(MockStorage))
	go hub.Run()

	// A transport goroutine looks sessions up while the hub loop is busy
	// registering and unregistering other clients.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Client("session-a")
			hub.Client("nobody")
		}
	}()

	for i := 0; i < 200; i++ {
		c := newMockClient("session-a", 8)
		hub.RegisterCh <- c
		hub.UnregisterCh <- c
	}
	<-done
}

func TestManager_IncomingTurnRepliesWithTypingFirst(t *testing.T) {
	hub := newTestHub(new(MockStorage))
	go hub.Run()

	client := newMockClient("session-a", 8)
	hub.RegisterCh <- client

	hub.IncomingCh <- models.ChatMessage{
		SessionID: "session-a",
		SenderID:  "session-a",
		Content:   "hello",
		Type:      "text",
	}

	typing := recv(t, client)
	assert.Equal(t, "typing", typing.Type)

	reply := recv(t, client)
	assert.Equal(t, "text", reply.Type)
	assert.Equal(t, "system", reply.SenderID)
	assert.Equal(t, "Hello! How can I assist you today?", reply.Content)
}

func TestManager_PublishesUpdateWhenReportIsFiled(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("PublishReportUpdate", mock.AnythingOfType("models.ChatMessage")).Return(nil)

	hub := newTestHub(storageMock)
	go hub.Run()

	client := newMockClient("session-a", 16)
	hub.RegisterCh <- client

	for _, text := range []string{
		"the grass next door is three feet tall",
		"123 Main Street",
		"yes, anonymous please",
		"it has been like this for a month",
	} {
		hub.IncomingCh <- models.ChatMessage{
			SessionID: "session-a",
			SenderID:  "session-a",
			Content:   text,
			Type:      "text",
		}
	}

	// Drain until the acknowledgement carrying the reference arrives.
	var final models.ChatMessage
	for i := 0; i < 8; i++ {
		msg := recv(t, client)
		if msg.ReportID != "" {
			final = msg
			break
		}
	}
	assert.Regexp(t, dialogue.RefPattern, final.ReportID)

	storageMock.AssertCalled(t, "PublishReportUpdate", mock.AnythingOfType("models.ChatMessage"))
}

func TestManager_FanOutReachesAllClients(t *testing.T) {
	hub := newTestHub(new(MockStorage))
	go hub.Run()

	clientA := newMockClient("session-a", 8)
	clientB := newMockClient("session-b", 8)
	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	time.Sleep(100 * time.Millisecond)

	hub.PubSubCh <- models.ChatMessage{
		SenderID: "system",
		Type:     "report_update",
		ReportID: "CC-HWG-240305-001",
	}

	assert.Equal(t, "report_update", recv(t, clientA).Type)
	assert.Equal(t, "report_update", recv(t, clientB).Type)
}

func TestManager_UnknownSessionIsDropped(t *testing.T) {
	hub := newTestHub(new(MockStorage))
	go hub.Run()

	hub.IncomingCh <- models.ChatMessage{
		SessionID: "nobody-here",
		Content:   "hello",
		Type:      "text",
	}

	// The loop must survive and keep serving registered clients.
	client := newMockClient("session-a", 8)
	hub.RegisterCh <- client
	time.Sleep(100 * time.Millisecond)
	_, ok := hub.Client("session-a")
	assert.True(t, ok)
}

func TestManager_SlowClientIsDisconnected(t *testing.T) {
	hub := newTestHub(new(MockStorage))
	go hub.Run()

	// Zero-capacity channel: the first delivery attempt fails immediately.
	slow := newMockClient("session-slow", 0)
	hub.RegisterCh <- slow

	hub.IncomingCh <- models.ChatMessage{
		SessionID: "session-slow",
		SenderID:  "session-slow",
		Content:   "hello",
		Type:      "text",
	}
	time.Sleep(100 * time.Millisecond)

	_, ok := hub.Client("session-slow")
	assert.False(t, ok)
	assert.True(t, slow.closed)
}
