package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// ReportUpdate is one entry in a report's update trail. The trail is
// append-only and is seeded with a single "Submitted" entry at creation,
// so it is never empty for a stored report.
type ReportUpdate struct {
	Date    time.Time `json:"date"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
}

// Report represents a citizen-filed code complaint or permit request.
// The reference number doubles as the primary key.
type Report struct {
	ID            string         `gorm:"primaryKey" json:"id"` // reference number, e.g. CC-HWG-250828-001
	Type          string         `json:"type"`                 // category code (HWG, JNK, ..., FNC, TRE)
	IsPermit      bool           `json:"isPermit"`
	UserID        string         `gorm:"index" json:"userId,omitempty"` // empty for anonymous walk-ins
	Address       string         `json:"address"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	DateSubmitted time.Time      `json:"dateSubmitted"`
	IsAnonymous   bool           `json:"isAnonymous"`
	ContactInfo   string         `json:"contactInfo,omitempty"`
	Keywords      pq.StringArray `gorm:"type:text[]" json:"keywords,omitempty"` // vocabulary hits captured at classification
	Updates       []ReportUpdate `gorm:"serializer:json" json:"updates"`
}

// IsPermitRef reports whether a reference number belongs to a permit request.
func IsPermitRef(refNumber string) bool {
	return strings.HasPrefix(refNumber, "PMT")
}
