package models

import (
	"time"
)

// Snapshot is the normalized representation of a monitored resource at one
// point in time. Snapshots are compared by Hash, never by FetchedAt.
type Snapshot struct {
	TargetName string
	URL        string
	Hash       string
	Content    string
	FetchedAt  time.Time
}

// ChangeEvent describes one detected content change for a monitored target.
// The core emits at most one ChangeEvent per detected change.
type ChangeEvent struct {
	TargetName string
	URL        string
	DetectedAt time.Time
	OldHash    string
	NewHash    string
	Diff       string
}
