// Package traffic maintains the set of vessels currently known to the
// simulation, fed by AIS reports or by service calls.
package traffic

import (
	"sync"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/pkg/util"
)

// Store is a mutex-guarded mapping from vessel id to vessel state.
// Snapshot reads return deep copies so callers can never observe a later
// mutation through a shared pointer.
type Store struct {
	mu      sync.Mutex
	vessels map[string]msgs.Vessel
}

func NewStore() *Store {
	return &Store{vessels: make(map[string]msgs.Vessel)}
}

// Snapshot returns a deep copy of the current vessel mapping.
func (s *Store) Snapshot() map[string]msgs.Vessel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepcopy.Copy(s.vessels).(map[string]msgs.Vessel)
}

// Len returns the number of vessels held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vessels)
}

// Replace swaps the held mapping wholesale for the given vessel list.
// Entries absent from the new list are discarded; nothing is merged.
func (s *Store) Replace(vessels []msgs.Vessel) {
	next := make(map[string]msgs.Vessel, len(vessels))
	for _, v := range vessels {
		next[v.ID] = v
	}
	s.mu.Lock()
	s.vessels = next
	s.mu.Unlock()
}

// Add inserts a vessel if its id is not already present and reports
// whether it was added.
func (s *Store) Add(v msgs.Vessel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.vessels[v.ID]; exists {
		return false
	}
	s.vessels[v.ID] = v
	return true
}

// Update replaces an existing vessel and reports whether it was present.
func (s *Store) Update(v msgs.Vessel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.vessels[v.ID]; !exists {
		return false
	}
	s.vessels[v.ID] = v
	return true
}

// Remove deletes a vessel by id, returning the removed state if any.
func (s *Store) Remove(id string) (msgs.Vessel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, exists := s.vessels[id]
	if exists {
		delete(s.vessels, id)
	}
	return v, exists
}

// Set inserts or overwrites a vessel unconditionally.
func (s *Store) Set(v msgs.Vessel) {
	s.mu.Lock()
	s.vessels[v.ID] = v
	s.mu.Unlock()
}

// List returns the vessels as a list message stamped with the given time.
func (s *Store) List(now time.Time) msgs.VesselList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := msgs.VesselList{
		Timestamp: util.Timestamp(now),
		Vessels:   make([]msgs.Vessel, 0, len(s.vessels)),
	}
	for _, v := range s.vessels {
		out.Vessels = append(out.Vessels, v)
	}
	return out
}
