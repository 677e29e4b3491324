package content

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Store holds the current snapshot. It is written only by a Loader and replaced wholesale.
type Store struct {
	current atomic.Pointer[Snapshot]

	mu          sync.RWMutex
	subscribers []func(*Snapshot)
}

// NewStore returns a store holding an empty version-0 snapshot.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the current snapshot. Callers keep a consistent view by holding on to it.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Subscribe registers fn to run after every replacement, in registration order.
func (s *Store) Subscribe(fn func(*Snapshot)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) replace(snap *Snapshot) {
	s.current.Store(snap)

	s.mu.RLock()
	subs := slices.Clone(s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}
