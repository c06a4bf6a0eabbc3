// Package watch reports changed documents under a directory tree, debounced
// so editors that write in several steps trigger one run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// DefaultDebounce is the quiet period before a batch of changes is delivered.
const DefaultDebounce = 150 * time.Millisecond

// ErrAlreadyRunning is returned when Watch is called twice.
var ErrAlreadyRunning = errors.New("watch: watcher already running")

// Config controls what is watched.
type Config struct {
	// Root is a file or directory. Directories are watched recursively.
	Root     string
	Debounce time.Duration
	// Match filters candidate files; nil accepts everything.
	Match      func(path string) bool
	SkipHidden bool
}

// Change is one changed file in a delivered batch.
type Change struct {
	Path    string
	Removed bool
}

// Handler receives a batch of changes sorted by path.
type Handler func(ctx context.Context, changes []Change)

// Watcher wraps an fsnotify watcher.
type Watcher struct {
	cfg     Config
	fs      *fsnotify.Watcher
	logger  interfaces.Logger
	pending *pendingSet

	mu      sync.Mutex
	running bool
}

// New creates a watcher. Call Close when done.
func New(cfg Config, logger interfaces.Logger) (*Watcher, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	return &Watcher{
		cfg:     cfg,
		fs:      inner,
		logger:  logger,
		pending: newPendingSet(),
	}, nil
}

// Watch blocks until ctx is cancelled, delivering debounced batches to
// handle. Handler calls never overlap.
func (w *Watcher) Watch(ctx context.Context, handle Handler) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.addTree(w.cfg.Root); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.cfg.Root, err)
	}
	w.logger.Info("watch.started", "root", w.cfg.Root, "debounce_ms", w.cfg.Debounce.Milliseconds())

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watch: events channel closed")
			}
			if w.record(event) {
				timer.Reset(w.cfg.Debounce)
			}

		case <-timer.C:
			if changes := w.pending.drain(); len(changes) > 0 {
				w.logger.Debug("watch.batch", "changes", len(changes))
				handle(ctx, changes)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watch: errors channel closed")
			}
			w.logger.Error("watch.error", "error", err)
		}
	}
}

// Close releases the fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// record reports whether event produced a pending change.
func (w *Watcher) record(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.hidden(event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch.add_failed", "path", event.Name, "error", err)
			}
			return false
		}
	}

	if w.cfg.Match != nil && !w.cfg.Match(event.Name) {
		return false
	}

	removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	w.pending.add(event.Name, removed)
	return true
}

func (w *Watcher) hidden(path string) bool {
	if !w.cfg.SkipHidden {
		return false
	}
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fs.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.hidden(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
		return nil
	})
}

// pendingSet keeps the latest state per path until drained.
type pendingSet struct {
	mu      sync.Mutex
	changes map[string]bool
}

func newPendingSet() *pendingSet {
	return &pendingSet{changes: map[string]bool{}}
}

func (p *pendingSet) add(path string, removed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes[path] = removed
}

func (p *pendingSet) drain() []Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.changes) == 0 {
		return nil
	}
	out := make([]Change, 0, len(p.changes))
	for path, removed := range p.changes {
		out = append(out, Change{Path: path, Removed: removed})
	}
	p.changes = map[string]bool{}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
