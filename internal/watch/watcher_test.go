package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func markdownOnly(path string) bool {
	return strings.HasSuffix(path, ".md")
}

func TestRecordFiltersEvents(t *testing.T) {
	w, err := New(Config{Root: t.TempDir(), Match: markdownOnly, SkipHidden: true}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	cases := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "a.md", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a.md", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: ".draft.md", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "b.md", Op: fsnotify.Remove}, true},
	}
	for _, tc := range cases {
		if got := w.record(tc.event); got != tc.want {
			t.Fatalf("record(%v): expected %v, got %v", tc.event, tc.want, got)
		}
	}

	changes := w.pending.drain()
	if len(changes) != 2 {
		t.Fatalf("expected two pending changes, got %v", changes)
	}
	if changes[0] != (Change{Path: "a.md"}) || changes[1] != (Change{Path: "b.md", Removed: true}) {
		t.Fatalf("unexpected changes %v", changes)
	}
	if w.pending.drain() != nil {
		t.Fatalf("expected drain to reset pending changes")
	}
}

func TestPendingSetKeepsLatestState(t *testing.T) {
	p := newPendingSet()
	p.add("a.md", true)
	p.add("a.md", false)

	changes := p.drain()
	if len(changes) != 1 || changes[0].Removed {
		t.Fatalf("expected latest write to win, got %v", changes)
	}
}

func TestWatchDeliversDebouncedBatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Config{Root: dir, Debounce: 30 * time.Millisecond, Match: markdownOnly}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []Change, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(_ context.Context, changes []Change) {
			batches <- changes
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(dir, "post.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("---\ntitle: x\n---\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changes := <-batches:
		if len(changes) != 1 || changes[0].Path != target {
			t.Fatalf("expected one change for %s, got %v", target, changes)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for change batch")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}
}

func TestWatchRejectsSecondRun(t *testing.T) {
	w, err := New(Config{Root: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.running = true
	if err := w.Watch(context.Background(), func(context.Context, []Change) {}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}
