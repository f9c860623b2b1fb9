package config

import (
	"os"
	"time"
)

const (
	// Reference numbers
	ComplaintPrefix     = "CC"
	PermitPrefix        = "PMT"
	ReferenceDateLayout = "060102" // YYMMDD

	// Report statuses. The set is open: the admin tool may write others.
	StatusSubmitted  = "Submitted"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"

	// Redis keys
	SessionSnapshotPrefix = "chat:session:"
	ReportUpdatesChannel  = "reports:updates"

	// Session snapshots expire on their own; nothing reads them back.
	SessionSnapshotTTL = 24 * time.Hour
)

// Get returns the value of an environment variable, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustGet returns the value of an environment variable and panics when unset.
func MustGet(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("config: required environment variable not set: " + key)
	}
	return v
}
