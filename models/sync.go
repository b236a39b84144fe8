package models

import "time"

// SyncReport describes one synchronization run. A zero FetchedCount with no
// error means the archive was already current.
type SyncReport struct {
	FetchedCount         int           `json:"fetched_count"`
	RejectedCount        int           `json:"rejected_count"`
	LatestSequenceNumber int           `json:"latest_concourse"`
	Duration             time.Duration `json:"duration"`
	// Skipped is set when another sync was already in flight.
	Skipped bool `json:"skipped"`
}

// SyncState is process-local and rebuilt from the archive on startup
type SyncState struct {
	LastKnownSequenceNumber int        `json:"last_known_concourse"`
	InProgress              bool       `json:"in_progress"`
	LastSyncAt              *time.Time `json:"last_sync_at,omitempty"`
	LastError               string     `json:"last_error,omitempty"`
}
