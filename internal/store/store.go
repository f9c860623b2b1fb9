// Package store keeps the full list of filed reports in memory, mirrored
// through an injected persistence port. Persistence failures never lose the
// in-memory record: they are recorded as a visible error state instead.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"civicgo/backend/internal/config"
	"civicgo/backend/internal/models"
)

// Persister is the storage port behind the in-memory report list.
type Persister interface {
	SaveReports(ctx context.Context, reports []models.Report) error
	LoadReports(ctx context.Context) ([]models.Report, error)
}

// Details carries the collected intake answers into a new report.
type Details struct {
	UserID      string
	Address     string
	Description string
	IsAnonymous bool
	ContactInfo string
	Keywords    []string
}

// ReportStore mirrors all reports in memory and writes through a Persister.
// Safe for concurrent use.
type ReportStore struct {
	mu          sync.Mutex
	reports     []models.Report
	persister   Persister
	initialized bool
	lastErr     error
	log         *zap.Logger
	now         func() time.Time
}

// New returns a store over the given persistence port.
func New(p Persister, log *zap.Logger) *ReportStore {
	return &ReportStore{persister: p, log: log, now: time.Now}
}

// SetClock injects a clock, for tests.
func (s *ReportStore) SetClock(now func() time.Time) { s.now = now }

// Init loads persisted reports. It is idempotent: repeated calls are no-ops.
// A load failure is recorded (see LastError) and the store continues with an
// empty list; it is never fatal.
func (s *ReportStore) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true

	reports, err := s.persister.LoadReports(ctx)
	if err != nil {
		s.lastErr = err
		s.log.Error("failed to load reports", zap.Error(err))
		return
	}
	s.reports = reports
	s.lastErr = nil
	s.log.Info("report store initialized", zap.Int("reports", len(reports)))
}

// Add constructs a report from the intake details, appends it and persists
// the list. The update trail is seeded with a single Submitted entry. When
// persistence fails the in-memory append still stands (no rollback); the
// failure is recorded and returned so callers can log it.
func (s *ReportStore) Add(ctx context.Context, reportType, refNumber string, d Details) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	report := models.Report{
		ID:            refNumber,
		Type:          reportType,
		IsPermit:      models.IsPermitRef(refNumber),
		UserID:        d.UserID,
		Address:       d.Address,
		Description:   d.Description,
		Status:        config.StatusSubmitted,
		DateSubmitted: now,
		IsAnonymous:   d.IsAnonymous,
		ContactInfo:   d.ContactInfo,
		Keywords:      d.Keywords,
		Updates: []models.ReportUpdate{{
			Date:    now,
			Status:  config.StatusSubmitted,
			Message: "Complaint registered successfully",
		}},
	}

	s.reports = append(s.reports, report)
	err := s.persistLocked(ctx)
	return report, err
}

// UpdateStatus appends an update entry and overwrites the status of the
// report with the given reference number, then persists. An unknown
// reference is a silent no-op; found reports false in that case.
func (s *ReportStore) UpdateStatus(ctx context.Context, refNumber, newStatus, message string) (found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID != refNumber {
			continue
		}
		s.reports[i].Status = newStatus
		s.reports[i].Updates = append(s.reports[i].Updates, models.ReportUpdate{
			Date:    s.now(),
			Status:  newStatus,
			Message: message,
		})
		if err := s.persistLocked(ctx); err != nil {
			s.log.Error("failed to persist status update", zap.String("ref", refNumber), zap.Error(err))
		}
		return true
	}
	return false
}

// Filtered returns reports matching both filters.
// typeFilter is one of "all", "complaints", "permits"; statusFilter is "all"
// or a normalized status ("submitted", "in-progress", "resolved", ...).
func (s *ReportStore) Filtered(typeFilter, statusFilter string) []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Report
	for _, r := range s.reports {
		typeMatch := typeFilter == "all" ||
			(typeFilter == "complaints" && !r.IsPermit) ||
			(typeFilter == "permits" && r.IsPermit)
		statusMatch := statusFilter == "all" || NormalizeStatus(r.Status) == statusFilter
		if typeMatch && statusMatch {
			out = append(out, r)
		}
	}
	return out
}

// ForUser returns the reports filed by a registered user.
func (s *ReportStore) ForUser(userID string) []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Report
	for _, r := range s.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// All returns a copy of the full report list.
func (s *ReportStore) All() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// LastError reports the most recent persistence failure, or nil. It clears
// once a save or load succeeds. The health endpoint surfaces it the way the
// old portal surfaced its error banner.
func (s *ReportStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *ReportStore) persistLocked(ctx context.Context) error {
	if err := s.persister.SaveReports(ctx, s.reports); err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	return nil
}

// NormalizeStatus lowercases a status and hyphenates spaces, matching the
// filter values the front end sends ("In Progress" -> "in-progress").
func NormalizeStatus(status string) string {
	return strings.ReplaceAll(strings.ToLower(status), " ", "-")
}
