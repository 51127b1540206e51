package session

import (
	"testing"
	"time"
)

var defaults = []string{"Germany", "Cyprus", "Portugal"}

func TestGetOrCreateNewSession(t *testing.T) {
	m := NewManager(defaults, time.Hour)
	defer m.Close()

	s, created := m.GetOrCreate("")
	if !created {
		t.Error("Expected a new session for empty id")
	}
	if s.ID == "" {
		t.Error("New session should have a generated id")
	}

	s.Lock()
	selection := s.Selection()
	s.Unlock()
	if len(selection) != len(defaults) {
		t.Fatalf("Expected default selection %v, got %v", defaults, selection)
	}
	for i, want := range defaults {
		if selection[i] != want {
			t.Errorf("Default selection[%d]: expected %s, got %s", i, want, selection[i])
		}
	}
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	m := NewManager(defaults, time.Hour)
	defer m.Close()

	first, _ := m.GetOrCreate("")
	second, created := m.GetOrCreate(first.ID)

	if created {
		t.Error("Known id should not create a new session")
	}
	if first != second {
		t.Error("Expected the same session instance for the same id")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Count())
	}
}

func TestUnknownIDCreatesFreshSession(t *testing.T) {
	m := NewManager(defaults, time.Hour)
	defer m.Close()

	s, created := m.GetOrCreate("stale-cookie-value")
	if !created {
		t.Error("Unknown id should create a new session")
	}
	if s.ID == "stale-cookie-value" {
		t.Error("New session must get a fresh generated id, not the stale one")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager(defaults, time.Hour)
	defer m.Close()

	a, _ := m.GetOrCreate("")
	b, _ := m.GetOrCreate("")

	a.Lock()
	a.SetSelection([]string{"Austria"})
	a.Sequencer().Toggle()
	a.Unlock()

	b.Lock()
	defer b.Unlock()
	if b.Sequencer().Running() {
		t.Error("Toggling one session must not start another session's animation")
	}
	if got := b.Selection(); len(got) != len(defaults) {
		t.Errorf("Other session's selection changed: %v", got)
	}
}

func TestSelectionReturnsCopy(t *testing.T) {
	m := NewManager(defaults, time.Hour)
	defer m.Close()

	s, _ := m.GetOrCreate("")
	s.Lock()
	got := s.Selection()
	got[0] = "Atlantis"
	fresh := s.Selection()
	s.Unlock()

	if fresh[0] == "Atlantis" {
		t.Error("Mutating the returned selection must not affect session state")
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m := NewManager(defaults, time.Minute)
	defer m.Close()

	idle, _ := m.GetOrCreate("")
	fresh, _ := m.GetOrCreate("")

	idle.Lock()
	idle.lastSeen = time.Now().Add(-2 * time.Minute)
	idle.Unlock()

	evicted := m.sweep(time.Now())
	if evicted != 1 {
		t.Fatalf("Expected 1 evicted session, got %d", evicted)
	}
	if _, ok := m.Get(idle.ID); ok {
		t.Error("Idle session should have been evicted")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("Fresh session should have survived the sweep")
	}
}

func TestSweepDisabledWithZeroTTL(t *testing.T) {
	m := NewManager(defaults, 0)
	defer m.Close()

	s, _ := m.GetOrCreate("")
	s.Lock()
	s.lastSeen = time.Now().Add(-24 * time.Hour)
	s.Unlock()

	if evicted := m.sweep(time.Now()); evicted != 0 {
		t.Errorf("Zero TTL should disable eviction, evicted %d", evicted)
	}
}
