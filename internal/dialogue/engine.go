package dialogue

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"civicgo/backend/internal/store"
)

// Reply is the engine's answer to one turn of conversation. ReportID and
// ReportType are set only when the turn finalized a report.
type Reply struct {
	Text       string
	ReportID   string
	ReportType string
}

// SnapshotSink receives a copy of the session after every turn. Snapshots
// are write-only; implementations must treat failures as non-fatal.
type SnapshotSink interface {
	SaveSessionSnapshot(snap SessionSnapshot) error
}

// Engine drives intake conversations. One engine serves all sessions; each
// session is guarded by its own mutex so overlapping submissions from the
// same session cannot interleave partial updates.
type Engine struct {
	store *store.ReportStore
	seq   *Sequencer
	log   *zap.Logger
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	snapshots SnapshotSink
}

// New creates an engine over the given report store and sequencer.
func New(st *store.ReportStore, seq *Sequencer, log *zap.Logger) *Engine {
	return &Engine{
		store:    st,
		seq:      seq,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// SetSnapshotSink wires the optional session snapshot destination.
func (e *Engine) SetSnapshotSink(sink SnapshotSink) { e.snapshots = sink }

// SetClock injects a clock, for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Session returns the session for the given id, creating it at the
// classification step if needed.
func (e *Engine) Session(id, userID string) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[id]; ok {
		if userID != "" {
			// Session fields belong to s.mu; a concurrent turn may be
			// reading them.
			s.mu.Lock()
			s.UserID = userID
			s.mu.Unlock()
		}
		return s
	}
	s := NewSession(id, userID)
	s.lastSeen = e.now()
	e.sessions[id] = s
	return s
}

// EvictIdle drops sessions that have not seen a turn for idleFor and returns
// how many were removed. In-flight turns are unaffected: they hold their own
// session pointer. Abandoned mid-flow conversations simply start over at
// classification when the visitor returns.
func (e *Engine) EvictIdle(idleFor time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-idleFor)
	evicted := 0
	for id, s := range e.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(e.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		e.log.Info("idle sessions evicted", zap.Int("count", evicted))
	}
	return evicted
}

// SetAnonymous records the caller's anonymity preference as the session
// default. The contact step can still override it.
func (e *Engine) SetAnonymous(sessionID string, anonymous bool) {
	s := e.Session(sessionID, "")
	s.mu.Lock()
	s.IsAnonymous = anonymous
	s.mu.Unlock()
}

// Process handles one turn of conversation and returns the bot's reply.
// Interceptors (greeting, passport FAQ, status check) run before step
// handling on every turn, including mid-flow, and do not advance the state.
// Input that fits no rule yields a clarification and no transition.
func (e *Engine) Process(ctx context.Context, sessionID, userID, text string) Reply {
	s := e.Session(sessionID, userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer e.snapshot(s)
	s.lastSeen = e.now()

	msg := strings.TrimSpace(text)
	lower := strings.ToLower(msg)

	if lower == "hi" || lower == "hello" || lower == "hey" {
		return Reply{Text: greetingText}
	}
	if strings.Contains(lower, "passport") {
		return Reply{Text: PassportAnswer(lower)}
	}
	if strings.Contains(lower, "status") && containsAny(lower, "cc-", "pmt-") {
		return Reply{Text: StatusAnswer(msg)}
	}

	switch s.Step {
	case StepClassify:
		return e.classify(s, lower)
	case StepAddress:
		return e.collectAddress(s, msg)
	case StepContact:
		return e.collectContact(s, msg, lower)
	case StepDetails:
		return e.finalize(ctx, s, msg)
	}
	return Reply{Text: clarifyText}
}

// classify runs the ordered rule table against the initial inquiry.
func (e *Engine) classify(s *Session, lower string) Reply {
	for _, r := range complaintRules {
		if r.match(lower) {
			s.ComplaintType = r.code
			s.Keywords = matchedKeywords(lower, r.keywords)
			s.Step = StepAddress
			return Reply{Text: r.reply}
		}
	}

	if strings.Contains(lower, "permit") {
		matched := homeImprovementRule
		for _, r := range permitRules {
			if r.match(lower) {
				matched = r
				break
			}
		}
		s.PermitType = matched.code
		s.Keywords = matchedKeywords(lower, matched.keywords)
		s.Step = StepAddress
		return Reply{Text: matched.reply}
	}

	// Nothing matched: ask for clarification, stay at classification.
	return Reply{Text: clarifyText}
}

func (e *Engine) collectAddress(s *Session, msg string) Reply {
	s.Address = msg

	if s.ComplaintType != "" {
		s.Step = StepContact
		if s.ComplaintType == "SUB" {
			// Housing complaints are followed up in person, so they are
			// never anonymous.
			return Reply{Text: askHousingContactText}
		}
		return Reply{Text: askAnonymityText}
	}

	// Permits skip the anonymity step and go straight to details.
	s.Step = StepDetails
	return Reply{Text: "Thank you. " + permitDetailQuestion(s.PermitType)}
}

func (e *Engine) collectContact(s *Session, msg, lower string) Reply {
	s.Step = StepDetails
	if s.ComplaintType == "SUB" {
		s.IsAnonymous = false
		s.ContactInfo = msg
		return Reply{Text: askHousingDetailsText}
	}
	s.IsAnonymous = containsAny(lower, "yes", "anonymous")
	return Reply{Text: askDetailsText}
}

// finalize files the report, emits the acknowledgement and resets the
// session for the next inquiry.
func (e *Engine) finalize(ctx context.Context, s *Session, msg string) Reply {
	s.Description = msg

	code := s.ComplaintType
	isPermit := false
	if code == "" {
		code = s.PermitType
		isPermit = true
	}
	ref := e.seq.Next(code, isPermit)

	_, err := e.store.Add(ctx, code, ref, store.Details{
		UserID:      s.UserID,
		Address:     s.Address,
		Description: s.Description,
		IsAnonymous: s.IsAnonymous,
		ContactInfo: s.ContactInfo,
		Keywords:    s.Keywords,
	})
	if err != nil {
		// The record is kept in memory; the citizen still gets their
		// reference number.
		e.log.Error("failed to persist report", zap.String("ref", ref), zap.Error(err))
	}
	e.log.Info("report filed",
		zap.String("ref", ref),
		zap.String("type", code),
		zap.Bool("permit", isPermit),
		zap.Bool("anonymous", s.IsAnonymous))

	text := ackText(code, s.Address, ref, isPermit, s.IsAnonymous)
	s.reset()
	return Reply{Text: text, ReportID: ref, ReportType: code}
}

func (e *Engine) snapshot(s *Session) {
	if e.snapshots == nil {
		return
	}
	if err := e.snapshots.SaveSessionSnapshot(s.snapshot()); err != nil {
		e.log.Warn("failed to snapshot session", zap.String("session", s.ID), zap.Error(err))
	}
}
