package memory

import (
	"context"
	"sync"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/aescanero/demoflow/pkg/ports"
)

// SnapshotStore implements ports.SnapshotStore in memory. It backs the
// default deployment without Redis and the test suite.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
}

// NewSnapshotStore creates an empty in-memory snapshot store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save replaces the stored snapshot
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	return nil
}

// Load returns the stored snapshot or ports.ErrSnapshotNotFound
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, ports.ErrSnapshotNotFound
	}
	return s.snapshot, nil
}

// Delete removes the stored snapshot
func (s *SnapshotStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = nil
	return nil
}
