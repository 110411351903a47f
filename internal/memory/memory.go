// Package memory is a bounded per-source ring of recent utterances,
// giving agents short-term conversational context.
package memory

import (
	"sync"
)

// DefaultLimit is the number of utterances kept per source.
const DefaultLimit = 20

// Store holds recent utterances keyed by source. In-memory only; the
// oracle owns durable history.
type Store struct {
	limit int

	mu      sync.Mutex
	entries map[string][]string
}

// NewStore creates a store keeping at most limit utterances per source.
// A non-positive limit falls back to DefaultLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{limit: limit, entries: make(map[string][]string)}
}

// Remember appends text to the source's ring, evicting the oldest entry
// past the limit. Empty text is ignored.
func (s *Store) Remember(source, text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ring := append(s.entries[source], text)
	if len(ring) > s.limit {
		ring = ring[len(ring)-s.limit:]
	}
	s.entries[source] = ring
}

// Recall returns a copy of the source's recent utterances, oldest first.
func (s *Store) Recall(source string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring := s.entries[source]
	out := make([]string, len(ring))
	copy(out, ring)
	return out
}
