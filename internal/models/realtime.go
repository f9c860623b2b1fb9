package models

// ChatMessage is the wire format exchanged with connected chat clients
// (WebSocket widget, Telegram) and over the Redis update channel.
type ChatMessage struct {
	SenderID  string `json:"sender_id"`
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Type      string `json:"type"` // "text", "typing", "report_update"
	ReportID  string `json:"report_id,omitempty"`
}
