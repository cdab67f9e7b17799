package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"garage-spot-service/internal/ports"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryPendingStore is the single-instance PendingStore used when no redis
// address is configured. Snapshots are stored encoded so callers never share
// slices with the store.
type MemoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryPendingStore creates a store. A zero ttl keeps entries forever.
func NewMemoryPendingStore(ttl time.Duration) *MemoryPendingStore {
	return &MemoryPendingStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryPendingStore) Load(_ context.Context, sessionID string) (ports.SessionSnapshot, bool, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	if ok && !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return ports.SessionSnapshot{}, false, nil
	}

	var snap ports.SessionSnapshot
	if err := json.Unmarshal(e.data, &snap); err != nil {
		return ports.SessionSnapshot{}, false, fmt.Errorf("load snapshot %s: decode: %w", sessionID, err)
	}
	return snap, true, nil
}

func (s *MemoryPendingStore) Save(_ context.Context, sessionID string, snap ports.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save snapshot %s: encode: %w", sessionID, err)
	}

	e := memoryEntry{data: data}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryPendingStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

var _ ports.PendingStore = (*MemoryPendingStore)(nil)
