package evidence

import "sync"

// Store accumulates Evidence records for one interview session.
// Records are kept in insertion order; appending a record whose
// (skill, trimmed quote) key already exists is a no-op — the first
// occurrence wins. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []Evidence
	seen  map[string]struct{}
}

// NewStore creates an empty evidence store
func NewStore() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Add appends a record unless its key is already present.
// Reports whether the record was actually added.
func (s *Store) Add(ev Evidence) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ev.Key()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, ev)
	return true
}

// AddAll appends each record, skipping duplicates, and returns the
// number actually added
func (s *Store) AddAll(evs []Evidence) int {
	added := 0
	for _, ev := range evs {
		if s.Add(ev) {
			added++
		}
	}
	return added
}

// List returns a copy of the accumulated records in insertion order
func (s *Store) List() []Evidence {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Evidence, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of accumulated records
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Reset drops all accumulated records, e.g. when a fresh interview
// session starts
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.seen = make(map[string]struct{})
}
