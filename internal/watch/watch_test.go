package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hopper/internal/logging"
)

func waitForNudge(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Nudges():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for nudge")
	}
}

func TestNudgeOnFileCreate(t *testing.T) {
	root := t.TempDir()
	w, err := New(logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.WatchTree(root); err != nil {
		t.Fatalf("watch tree: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	if err := os.WriteFile(filepath.Join(root, "movie.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	waitForNudge(t, w)
}

func TestNewSubdirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	w, err := New(logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.WatchTree(root); err != nil {
		t.Fatalf("watch tree: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	sub := filepath.Join(root, "season-1")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	waitForNudge(t, w)

	// Give the event loop a moment to add the new watch before writing into it.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(sub, "episode.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write nested file: %v", err)
	}
	waitForNudge(t, w)
}

func TestNudgesCoalesce(t *testing.T) {
	root := t.TempDir()
	w, err := New(logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.WatchTree(root); err != nil {
		t.Fatalf("watch tree: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	for i := 0; i < 10; i++ {
		name := filepath.Join(root, "file"+string(rune('a'+i)))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	waitForNudge(t, w)

	// The channel holds at most one pending nudge, never a backlog.
	if got := len(w.Nudges()); got > 1 {
		t.Fatalf("expected coalesced channel, got %d pending", got)
	}
}
