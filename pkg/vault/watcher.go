package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ashgrove/vaultview/pkg/types"
)

// defaultDebounce absorbs the write bursts editors produce when saving.
const defaultDebounce = 250 * time.Millisecond

// Watcher observes the vault tree with fsnotify and publishes typed note
// events. fsnotify watches are not recursive, so every subdirectory is
// registered individually and newly created directories are added as they
// appear.
type Watcher struct {
	vault    *Vault
	fsw      *fsnotify.Watcher
	out      chan<- *types.Event
	debounce time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for the given vault that publishes events
// on out.
func NewWatcher(v *Vault, out chan<- *types.Event) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	return &Watcher{
		vault:    v,
		fsw:      fsw,
		out:      out,
		debounce: defaultDebounce,
		lastSeen: make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start registers watches for the vault tree and begins the event loop.
// Non-blocking; the loop runs until Stop is called or ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watchTree(w.vault.Root()); err != nil {
		// The loop never started: undo the running flag so Stop stays a
		// no-op instead of blocking on doneCh, and release the watcher.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.fsw.Close()
		return err
	}

	go w.run(ctx)
	return nil
}

// Rewatch re-registers watches for the current vault tree. Directories
// matched by an ignore pattern are skipped at registration time, so after
// the patterns change a formerly ignored directory has no watch until this
// runs. Re-adding an already watched directory is harmless.
func (w *Watcher) Rewatch() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return nil
	}
	return w.watchTree(w.vault.Root())
}

// Stop terminates the event loop and closes the underlying watcher.
// Safe to call when the watcher never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.fsw.Close()
}

// watchTree registers the directory and every non-ignored subdirectory.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.vault.Ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.publish(types.NewErrorEvent(fmt.Errorf("watcher error: %w", err)))
		}
	}
}

// handleFsEvent classifies a raw fsnotify event into vault events and
// keeps the index plus the watch set current.
func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	path := event.Name

	switch {
	case event.Op.Has(fsnotify.Create):
		// New directories need their own watch before their contents
		// produce events.
		if isDir(path) {
			if !w.vault.Ignored(path) {
				_ = w.watchTree(path)
			}
			return
		}
		if !IsMarkdown(path) || w.vault.Ignored(path) {
			return
		}
		if _, err := w.vault.Add(path); err != nil {
			return
		}
		w.publish(types.NewNoteCreatedEvent(path))

	case event.Op.Has(fsnotify.Write):
		if !IsMarkdown(path) || w.vault.Ignored(path) {
			return
		}
		if !w.admit(path) {
			return
		}
		if _, err := w.vault.Add(path); err != nil {
			return
		}
		w.publish(types.NewNoteModifiedEvent(path))

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// A rename surfaces here for the old path; the new path arrives
		// as a separate Create. Downstream treats the pair as remove+add.
		if _, known := w.vault.Get(path); !known {
			return
		}
		w.vault.Remove(path)
		w.publish(types.NewNoteDeletedEvent(path))
	}
}

// admit applies per-path debouncing to write events.
func (w *Watcher) admit(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if last, ok := w.lastSeen[path]; ok && now.Sub(last) < w.debounce {
		return false
	}
	w.lastSeen[path] = now
	return true
}

func (w *Watcher) publish(e *types.Event) {
	select {
	case w.out <- e:
	default:
		// Channel full: drop rather than stall the watcher. Views resync
		// on the next event that does land.
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
