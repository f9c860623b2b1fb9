// Package dialogue implements the intake conversation: a small state machine
// that classifies a citizen's free-text inquiry into a complaint or permit
// category, walks them through address, anonymity and detail collection, and
// files the finished report with the store.
package dialogue

import (
	"sync"
	"time"
)

// Step identifies the stage of an intake conversation.
type Step int

const (
	// StepClassify: awaiting the initial inquiry to classify.
	StepClassify Step = iota
	// StepAddress: awaiting the location of the issue.
	StepAddress
	// StepContact: awaiting the anonymity preference, or contact details for
	// housing complaints.
	StepContact
	// StepDetails: awaiting the free-text description; the next input
	// finalizes the report.
	StepDetails
)

// Session holds the mutable state of one intake conversation.
// ComplaintType and PermitType are mutually exclusive: classification sets
// exactly one and the other stays empty. A session is reset to defaults when
// created and again after each finalized report.
type Session struct {
	ID            string
	UserID        string // empty for anonymous visitors
	Step          Step
	ComplaintType string
	PermitType    string
	Address       string
	IsAnonymous   bool
	ContactInfo   string
	Description   string
	Keywords      []string

	// lastSeen is touched on every turn and drives idle eviction.
	lastSeen time.Time

	mu sync.Mutex
}

// NewSession returns a session at the classification step.
func NewSession(id, userID string) *Session {
	s := &Session{ID: id, UserID: userID}
	s.reset()
	return s
}

// reset returns the session to its defaults, keeping identity.
// Callers must hold s.mu (or own the session exclusively).
func (s *Session) reset() {
	s.Step = StepClassify
	s.ComplaintType = ""
	s.PermitType = ""
	s.Address = ""
	s.IsAnonymous = true
	s.ContactInfo = ""
	s.Description = ""
	s.Keywords = nil
}

// SessionSnapshot is the serializable view of a session written to Redis
// after every turn. Snapshots are write-only: nothing reads them back, they
// exist as an operator debugging aid.
type SessionSnapshot struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	Step          Step      `json:"step"`
	ComplaintType string    `json:"complaint_type,omitempty"`
	PermitType    string    `json:"permit_type,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsAnonymous   bool      `json:"is_anonymous"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// snapshot copies the session's current state. Callers must hold s.mu.
func (s *Session) snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:            s.ID,
		UserID:        s.UserID,
		Step:          s.Step,
		ComplaintType: s.ComplaintType,
		PermitType:    s.PermitType,
		Address:       s.Address,
		IsAnonymous:   s.IsAnonymous,
		UpdatedAt:     time.Now(),
	}
}
