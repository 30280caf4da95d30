package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/tutorlab/ds-tutor/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendTurnAssignsIDAndTimestamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	turn, err := s.AppendTurn(ctx, "session-1", store.RoleUser, "What is a p-value?")
	if err != nil {
		t.Fatal(err)
	}

	if turn.ID <= 0 {
		t.Errorf("expected positive id, got %d", turn.ID)
	}
	if turn.SessionID != "session-1" {
		t.Errorf("expected session-1, got %q", turn.SessionID)
	}
	if turn.Role != store.RoleUser {
		t.Errorf("expected role %q, got %q", store.RoleUser, turn.Role)
	}
	if turn.Content != "What is a p-value?" {
		t.Errorf("unexpected content: %q", turn.Content)
	}
	if turn.Timestamp.IsZero() {
		t.Error("expected store-assigned timestamp, got zero value")
	}
}

func TestAppendTurnRejectsInvalidRole(t *testing.T) {
	s := testStore(t)

	if _, err := s.AppendTurn(context.Background(), "session-1", "system", "nope"); err == nil {
		t.Fatal("expected error for role outside the closed set")
	}
}

func TestLoadTranscriptPreservesAppendOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Rapid appends land on the same second; ordering must fall back to id.
	var want []string
	for i := 0; i < 6; i++ {
		role := store.RoleUser
		if i%2 == 1 {
			role = store.RoleAssistant
		}
		content := fmt.Sprintf("turn %d", i)
		if _, err := s.AppendTurn(ctx, "session-1", role, content); err != nil {
			t.Fatal(err)
		}
		want = append(want, content)
	}

	turns, err := s.LoadTranscript(ctx, "session-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(turns))
	}
	for i, turn := range turns {
		if turn.Content != want[i] {
			t.Errorf("turn %d: expected %q, got %q", i, want[i], turn.Content)
		}
	}
}

func TestLoadTranscriptRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	content := "Use a list comprehension:\n```python\nsquares = [x**2 for x in range(10)]\n```"
	if _, err := s.AppendTurn(ctx, "session-1", store.RoleAssistant, content); err != nil {
		t.Fatal(err)
	}

	turns, err := s.LoadTranscript(ctx, "session-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Role != store.RoleAssistant {
		t.Errorf("expected role %q, got %q", store.RoleAssistant, turns[0].Role)
	}
	if turns[0].Content != content {
		t.Errorf("content not preserved:\nwant %q\ngot  %q", content, turns[0].Content)
	}
}

func TestLoadTranscriptUnknownSession(t *testing.T) {
	s := testStore(t)

	turns, err := s.LoadTranscript(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("expected no error for unknown session, got %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty transcript, got %d turns", len(turns))
	}
}

func TestLoadTranscriptIsolatesSessions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.AppendTurn(ctx, "session-a", store.RoleUser, "a question"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendTurn(ctx, "session-b", store.RoleUser, "b question"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendTurn(ctx, "session-a", store.RoleAssistant, "a answer"); err != nil {
		t.Fatal(err)
	}

	turns, err := s.LoadTranscript(ctx, "session-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns for session-a, got %d", len(turns))
	}
	for _, turn := range turns {
		if turn.SessionID != "session-a" {
			t.Errorf("foreign turn in transcript: %+v", turn)
		}
	}
}
