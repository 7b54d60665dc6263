package memory

import (
	"context"
	"sync"
	"time"

	"stockgate/internal/gate/types"
)

// AccessLogStore is an in-memory append-only log of access decisions.
// It is intended for use in tests and dev environments.
type AccessLogStore struct {
	mu      sync.Mutex
	entries []types.AccessLogEntry

	// FailNext forces the next Append to return this error.  Test hook for
	// the audit-before-writeback ordering guarantee.
	FailNext error
}

func NewAccessLogStore() *AccessLogStore {
	return &AccessLogStore{}
}

func (s *AccessLogStore) Append(_ context.Context, e types.AccessLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.ID = int64(len(s.entries) + 1)
	s.entries = append(s.entries, e)
	return nil
}

func (s *AccessLogStore) List(_ context.Context, limit int) ([]types.AccessLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AccessLogEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Entries returns a copy of all recorded entries in append order.
// Test-only helper.
func (s *AccessLogStore) Entries() []types.AccessLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AccessLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
