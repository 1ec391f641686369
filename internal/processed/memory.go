package processed

import (
	"context"
	"sync"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

type entry struct {
	state domain.ProcessedState
	dest  domain.Destination
}

// MemorySet implements Set with an in-memory map. It is the baseline
// tracker when no Redis is configured; state does not survive restarts,
// which is safe because sinks tolerate idempotent re-writes.
type MemorySet struct {
	entries map[string]entry
	mu      sync.Mutex
}

// NewMemorySet creates a new in-memory processed set.
func NewMemorySet() *MemorySet {
	return &MemorySet{entries: make(map[string]entry)}
}

// Claim atomically transitions an unseen identifier to in-flight.
func (s *MemorySet) Claim(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; exists {
		return false, nil
	}
	s.entries[id] = entry{state: domain.StateInFlight}
	return true, nil
}

// Complete marks a claimed identifier terminal.
func (s *MemorySet) Complete(ctx context.Context, id string, dest domain.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[id]
	if !exists || e.state != domain.StateInFlight {
		return ErrNotClaimed
	}
	s.entries[id] = entry{state: domain.StateCompleted, dest: dest}
	return nil
}

// Release returns a claimed identifier to unseen.
func (s *MemorySet) Release(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[id]
	if !exists || e.state != domain.StateInFlight {
		return ErrNotClaimed
	}
	delete(s.entries, id)
	return nil
}

// Get reports the current state of an identifier.
func (s *MemorySet) Get(ctx context.Context, id string) (domain.ProcessedState, domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[id]
	if !exists {
		return domain.StateUnseen, "", nil
	}
	return e.state, e.dest, nil
}

// Forget drops all state for an identifier.
func (s *MemorySet) Forget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
