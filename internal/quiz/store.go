package quiz

import (
	"sync"
	"sync/atomic"
	"time"
)

// entry guards one session's state. mu is held for the whole of an
// operation, including its LLM calls. view holds the snapshot of the last
// committed state so reads never wait on an operation in flight.
type entry struct {
	mu      sync.Mutex
	state   *State
	view    atomic.Pointer[Snapshot]
	touched time.Time
}

// commit publishes the current state to readers. Callers hold mu.
func (e *entry) commit() {
	if e.state == nil {
		e.view.Store(nil)
		return
	}
	e.view.Store(e.state.snapshot())
}

// Store keeps quiz state per session in memory.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry), now: time.Now}
}

func (s *Store) entry(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	e.touched = s.now()
	return e
}

// lock acquires the session's entry, failing with ErrBusy instead of
// waiting when another operation holds it.
func (s *Store) lock(id string) (*entry, error) {
	e := s.entry(id)
	if !e.mu.TryLock() {
		return nil, ErrBusy
	}
	return e, nil
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Prune drops sessions idle for longer than maxIdle and returns their ids.
// Sessions with an operation in flight are kept.
func (s *Store) Prune(maxIdle time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	var dropped []string
	for id, e := range s.entries {
		if !e.touched.Before(cutoff) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(s.entries, id)
		e.mu.Unlock()
		dropped = append(dropped, id)
	}
	return dropped
}
