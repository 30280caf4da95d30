package session

import "testing"

func TestCurrentMintsOnceAndSticks(t *testing.T) {
	m := NewManager()

	first := m.Current()
	if first == "" {
		t.Fatal("expected a session id, got empty string")
	}
	if second := m.Current(); second != first {
		t.Errorf("expected stable id, got %q then %q", first, second)
	}
}

func TestResetReplacesIdentifier(t *testing.T) {
	m := NewManager()

	old := m.Current()
	fresh := m.Reset()

	if fresh == "" {
		t.Fatal("expected a session id, got empty string")
	}
	if fresh == old {
		t.Errorf("expected a distinct id after reset, got %q twice", fresh)
	}
	if current := m.Current(); current != fresh {
		t.Errorf("expected Current to return the reset id %q, got %q", fresh, current)
	}
}

func TestResetWithoutPriorCurrent(t *testing.T) {
	m := NewManager()

	id := m.Reset()
	if id == "" {
		t.Fatal("expected a session id, got empty string")
	}
	if current := m.Current(); current != id {
		t.Errorf("expected Current to return %q, got %q", id, current)
	}
}
