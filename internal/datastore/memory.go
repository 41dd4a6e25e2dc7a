// Package datastore provides the snapshot stores backing change detection:
// an in-memory store for process-lifetime state and a SQLite store for
// optional cross-run durability.
package datastore

import (
	"sync"

	"pagewatch/internal/models"
)

// MemoryStore keeps the last known snapshot per target in memory. It is the
// default store; state is discarded at process shutdown and baselines are
// re-seeded on the next run.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]models.Snapshot
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]models.Snapshot),
	}
}

// Get returns the stored snapshot for targetName, or ErrSnapshotNotFound.
func (s *MemoryStore) Get(targetName string) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[targetName]
	if !ok {
		return nil, models.ErrSnapshotNotFound
	}
	return &snapshot, nil
}

// Put stores snapshot, replacing any previous snapshot for the same target.
func (s *MemoryStore) Put(snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.TargetName] = snapshot
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
