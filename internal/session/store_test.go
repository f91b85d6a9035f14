// File path: internal/session/store_test.go
package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Path: filepath.Join(t.TempDir(), "sessions.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStartAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	sess, err := store.Start(ctx, "doc@example.com", "case001")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Start returned empty id")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email != "doc@example.com" || got.CaseID != "case001" {
		t.Fatalf("Get = %+v", got)
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAppendAndMessages(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	sess, err := store.Start(ctx, "doc@example.com", "case001")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	turns := []struct{ role, content string }{
		{"user", "Where does it hurt?"},
		{"assistant", "My head, doctor."},
		{"user", "How long has this been going on?"},
	}
	for _, turn := range turns {
		if err := store.Append(ctx, sess.ID, turn.role, turn.content); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	msgs, err := store.Messages(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != len(turns) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(turns))
	}
	for i, turn := range turns {
		if msgs[i].Role != turn.role || msgs[i].Content != turn.content {
			t.Errorf("message %d = %+v, want %+v", i, msgs[i], turn)
		}
	}
}

func TestAppendToUnknownSession(t *testing.T) {
	store := openStore(t)
	if err := store.Append(context.Background(), "nope", "user", "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionsPreview(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.Start(ctx, "doc@example.com", "case001")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	long := strings.Repeat("a", 80)
	if err := store.Append(ctx, first.ID, "user", "short question"); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, first.ID, "assistant", long); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Start(ctx, "other@example.com", "case002"); err != nil {
		t.Fatal(err)
	}

	list, err := store.Sessions(ctx, "doc@example.com")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d sessions, want 1", len(list))
	}
	want := strings.Repeat("a", 50) + "..."
	if list[0].Preview != want {
		t.Errorf("Preview = %q, want %q", list[0].Preview, want)
	}
	if list[0].CaseID != "case001" {
		t.Errorf("CaseID = %q", list[0].CaseID)
	}
}

func TestSessionsEmptyTranscript(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.Start(ctx, "doc@example.com", "case001"); err != nil {
		t.Fatal(err)
	}
	list, err := store.Sessions(ctx, "doc@example.com")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(list) != 1 || list[0].Preview != "" {
		t.Fatalf("Sessions = %+v, want one entry with empty preview", list)
	}
}
