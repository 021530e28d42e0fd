package memory

import (
	"context"
	"sync"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/storage"
)

// Default bounds of the in-memory lookup event store.
const (
	DefaultEventRetention = 24 * time.Hour
	DefaultMaxEvents      = 100_000
)

// LookupEventStore is an in-memory implementation of storage.LookupEventStore.
// Events older than the retention window, measured from the newest event, are
// evicted on insert, and at most maxEvents are kept.
type LookupEventStore struct {
	mu        sync.RWMutex
	events    []domain.LookupEvent
	newest    int64
	retention time.Duration
	maxEvents int
}

// LookupEventOption configures a LookupEventStore.
type LookupEventOption func(*LookupEventStore)

// WithRetention sets how long events are kept.
func WithRetention(d time.Duration) LookupEventOption {
	return func(s *LookupEventStore) {
		s.retention = d
	}
}

// WithMaxEvents caps the number of stored events.
func WithMaxEvents(n int) LookupEventOption {
	return func(s *LookupEventStore) {
		s.maxEvents = n
	}
}

// NewLookupEventStore creates a new in-memory lookup event store.
func NewLookupEventStore(opts ...LookupEventOption) *LookupEventStore {
	s := &LookupEventStore{
		retention: DefaultEventRetention,
		maxEvents: DefaultMaxEvents,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert appends a lookup event and evicts expired ones.
func (s *LookupEventStore) Insert(_ context.Context, e *domain.LookupEvent) error {
	if e == nil || e.Outcome == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *e)
	if e.Timestamp > s.newest {
		s.newest = e.Timestamp
	}
	s.evict()
	return nil
}

// evict drops expired events from the front, then the oldest beyond the cap.
// Events arrive in near timestamp order; a late out-of-order event is
// dropped once it reaches the front.
func (s *LookupEventStore) evict() {
	cutoff := s.newest - s.retention.Milliseconds()
	n := 0
	for n < len(s.events) && s.events[n].Timestamp < cutoff {
		n++
	}
	if over := len(s.events) - n - s.maxEvents; s.maxEvents > 0 && over > 0 {
		n += over
	}
	if n > 0 {
		s.events = s.events[n:]
	}
}

// CountByOutcome counts events with timestamp >= sinceMs grouped by outcome.
func (s *LookupEventStore) CountByOutcome(_ context.Context, sinceMs int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Timestamp >= sinceMs {
			counts[e.Outcome]++
		}
	}
	return counts, nil
}

// Events returns a copy of all stored events.
func (s *LookupEventStore) Events() []domain.LookupEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LookupEvent, len(s.events))
	copy(out, s.events)
	return out
}

var _ storage.LookupEventStore = (*LookupEventStore)(nil)
