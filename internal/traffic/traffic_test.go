package traffic

import (
	"testing"

	"github.com/morild/simcharts/internal/msgs"
)

func vessel(id string, x float64) msgs.Vessel {
	return msgs.Vessel{ID: id, X: x, Y: x, Length: 30, Width: 8}
}

func TestStoreReplaceIsWholesale(t *testing.T) {
	s := NewStore()
	s.Replace([]msgs.Vessel{vessel("a", 1), vessel("b", 2)})

	s.Replace([]msgs.Vessel{vessel("c", 3)})

	snap := s.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("after replace, store holds %d vessels, want 1", len(snap))
	}
	if _, ok := snap["a"]; ok {
		t.Error("vessel a survived a wholesale replacement")
	}
	if _, ok := snap["c"]; !ok {
		t.Error("vessel c missing after replacement")
	}
}

func TestStoreReplaceWithEmptyListClears(t *testing.T) {
	s := NewStore()
	s.Replace([]msgs.Vessel{vessel("a", 1)})
	s.Replace(nil)
	if s.Len() != 0 {
		t.Errorf("store holds %d vessels after empty replacement, want 0", s.Len())
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore()
	s.Replace([]msgs.Vessel{vessel("a", 1)})

	snap := s.Snapshot()
	snap["a"] = vessel("a", 99)
	snap["b"] = vessel("b", 2)

	if s.Len() != 1 {
		t.Errorf("mutating a snapshot changed the store size to %d", s.Len())
	}
	if got := s.Snapshot()["a"].X; got != 1 {
		t.Errorf("mutating a snapshot changed the stored vessel: X = %v", got)
	}
}

func TestStoreAddUpdateRemove(t *testing.T) {
	s := NewStore()

	if !s.Add(vessel("a", 1)) {
		t.Error("adding a new vessel should succeed")
	}
	if s.Add(vessel("a", 2)) {
		t.Error("adding an existing id should fail")
	}
	if got := s.Snapshot()["a"].X; got != 1 {
		t.Errorf("failed add overwrote the vessel: X = %v", got)
	}

	if !s.Update(vessel("a", 5)) {
		t.Error("updating an existing vessel should succeed")
	}
	if s.Update(vessel("missing", 1)) {
		t.Error("updating an unknown id should fail")
	}

	removed, ok := s.Remove("a")
	if !ok || removed.X != 5 {
		t.Errorf("Remove returned (%+v, %v), want the updated vessel", removed, ok)
	}
	if _, ok := s.Remove("a"); ok {
		t.Error("removing twice should fail the second time")
	}
}

func TestStoreList(t *testing.T) {
	s := NewStore()
	s.Replace([]msgs.Vessel{vessel("a", 1), vessel("b", 2)})

	list := s.List(testTime())
	if len(list.Vessels) != 2 {
		t.Errorf("list holds %d vessels, want 2", len(list.Vessels))
	}
	if list.Timestamp <= 0 {
		t.Errorf("timestamp = %v, want positive", list.Timestamp)
	}
}
