package cache

import (
	"context"
	"sync"
	"time"

	appsale "github.com/pos/backend/internal/application/sale"
)

// Ensure InMemoryCommitReplayStore implements CommitReplayStore
var _ appsale.CommitReplayStore = (*InMemoryCommitReplayStore)(nil)

type replayEntry struct {
	saleID    int64 // 0 while the commit is still running
	expiresAt time.Time
}

// InMemoryCommitReplayStore keeps idempotency keys in process memory.
// Reservations are not shared between instances; use the Redis store when
// more than one server runs.
type InMemoryCommitReplayStore struct {
	mu          sync.Mutex
	entries     map[string]replayEntry
	now         func() time.Time
	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// NewInMemoryCommitReplayStore creates a store and starts its cleanup loop
func NewInMemoryCommitReplayStore() *InMemoryCommitReplayStore {
	return newInMemoryCommitReplayStore(5*time.Minute, time.Now)
}

func newInMemoryCommitReplayStore(cleanupInterval time.Duration, now func() time.Time) *InMemoryCommitReplayStore {
	store := &InMemoryCommitReplayStore{
		entries:     make(map[string]replayEntry),
		now:         now,
		stopCleanup: make(chan struct{}),
	}
	go store.cleanupLoop(cleanupInterval)
	return store
}

// Reserve claims key unless a live entry already holds it
func (s *InMemoryCommitReplayStore) Reserve(_ context.Context, key string, ttl time.Duration) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		return entry.saleID, false, nil
	}
	s.entries[key] = replayEntry{expiresAt: now.Add(ttl)}
	return 0, true, nil
}

// Complete records the sale id for key
func (s *InMemoryCommitReplayStore) Complete(_ context.Context, key string, saleID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = replayEntry{saleID: saleID, expiresAt: s.now().Add(ttl)}
	return nil
}

// Release drops key while it is still pending
func (s *InMemoryCommitReplayStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && entry.saleID == 0 {
		delete(s.entries, key)
	}
	return nil
}

// Size returns the number of entries, expired ones included until cleanup
func (s *InMemoryCommitReplayStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the cleanup loop
func (s *InMemoryCommitReplayStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

func (s *InMemoryCommitReplayStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *InMemoryCommitReplayStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}
