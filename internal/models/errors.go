package models

import "errors"

// ErrSnapshotNotFound is returned by a SnapshotStore when no snapshot has
// been recorded for the requested target.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore holds the last known snapshot per monitored target. Get
// returns ErrSnapshotNotFound for targets that have never been stored.
// Implementations must be safe for concurrent use by independent jobs.
type SnapshotStore interface {
	Get(targetName string) (*Snapshot, error)
	Put(snapshot Snapshot) error
	Close() error
}
