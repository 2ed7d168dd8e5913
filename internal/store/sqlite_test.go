// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers turn persistence, session isolation, and reopen durability

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return s
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestGetTurns_UnknownSession(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	turns, err := s.GetTurns(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty history for unknown session, got %d turns", len(turns))
	}
}

func TestPutAndGetTurns(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	want := []Turn{
		{Role: RoleUser, Content: "Who won Super Bowl LVIII?"},
		{Role: RoleAssistant, Content: "The Kansas City Chiefs."},
	}

	if err := s.PutTurns(ctx, "sess-1", want); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}

	got, err := s.GetTurns(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("turn count mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("turn %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPutTurns_ReplacesSequence(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	if err := s.PutTurns(ctx, "sess-1", []Turn{{Role: RoleUser, Content: "first"}}); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}
	if err := s.PutTurns(ctx, "sess-1", []Turn{{Role: RoleUser, Content: "second"}}); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}

	got, err := s.GetTurns(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(got) != 1 || got[0].Content != "second" {
		t.Errorf("expected replaced sequence [second], got %+v", got)
	}
}

func TestPutTurns_EmptyClearsSession(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	if err := s.PutTurns(ctx, "sess-1", []Turn{{Role: RoleUser, Content: "hello"}}); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}
	if err := s.PutTurns(ctx, "sess-1", nil); err != nil {
		t.Fatalf("PutTurns with nil failed: %v", err)
	}

	got, err := s.GetTurns(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history after clearing write, got %+v", got)
	}
}

func TestSessionIsolation(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx := context.Background()
	if err := s.PutTurns(ctx, "sess-a", []Turn{{Role: RoleUser, Content: "a"}}); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}
	if err := s.PutTurns(ctx, "sess-b", []Turn{{Role: RoleUser, Content: "b"}}); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}

	gotA, err := s.GetTurns(ctx, "sess-a")
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(gotA) != 1 || gotA[0].Content != "a" {
		t.Errorf("session A history contaminated: %+v", gotA)
	}

	gotB, err := s.GetTurns(ctx, "sess-b")
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(gotB) != 1 || gotB[0].Content != "b" {
		t.Errorf("session B history contaminated: %+v", gotB)
	}
}

func TestTurnsSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	ctx := context.Background()
	want := []Turn{{Role: RoleUser, Content: "persisted"}}
	if err := s.PutTurns(ctx, "sess-1", want); err != nil {
		t.Fatalf("PutTurns failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetTurns(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetTurns after reopen failed: %v", err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("history did not survive reopen: %+v", got)
	}
}
