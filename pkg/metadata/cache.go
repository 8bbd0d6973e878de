package metadata

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ashgrove/vaultview/pkg/types"
	"github.com/ashgrove/vaultview/pkg/vault"
)

// Cache is the per-note metadata index. It sits between the vault watcher
// and the views: file events come in, the affected note is reparsed, and a
// metadata changed signal goes out after every mutation so aggregations
// downstream can refold.
type Cache struct {
	vault *vault.Vault
	mu    sync.RWMutex
	meta  map[string]Meta // keyed by absolute note path
}

// NewCache creates an empty cache over the given vault.
func NewCache(v *vault.Vault) *Cache {
	return &Cache{
		vault: v,
		meta:  make(map[string]Meta),
	}
}

// Reindex parses every note currently in the vault index. Used at startup
// and after settings changes that alter the note set.
func (c *Cache) Reindex() {
	notes := c.vault.Notes()
	fresh := make(map[string]Meta, len(notes))
	for _, n := range notes {
		fresh[n.Path] = parseFile(n.Path)
	}

	c.mu.Lock()
	c.meta = fresh
	c.mu.Unlock()
}

// Reparse re-derives metadata for a single note path.
func (c *Cache) Reparse(path string) {
	m := parseFile(path)
	c.mu.Lock()
	c.meta[path] = m
	c.mu.Unlock()
}

// Remove drops the cache entry for path. Unknown paths are a no-op.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	delete(c.meta, path)
	c.mu.Unlock()
}

// Get returns the cached metadata for a note path.
func (c *Cache) Get(path string) (Meta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.meta[path]
	return m, ok
}

// Snapshot returns a copy of the path → tags mapping, the input to the
// tag aggregation fold.
func (c *Cache) Snapshot() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(map[string][]string, len(c.meta))
	for path, m := range c.meta {
		tags := make([]string, len(m.Tags))
		copy(tags, m.Tags)
		snap[path] = tags
	}
	return snap
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meta)
}

// Run consumes vault events from in, keeps the cache current, and
// republishes each event to out followed by a metadata changed signal.
// Ordering matters: subscribers always observe the cache state that
// already includes the event they are reacting to. Blocks until ctx is
// canceled or in closes.
func (c *Cache) Run(ctx context.Context, in <-chan *types.Event, out chan<- *types.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-in:
			if !ok {
				return
			}
			c.apply(event)
			forward(ctx, out, event)
			if event.IsFileEvent() {
				forward(ctx, out, types.NewMetadataChangedEvent(event.Path))
			}
		}
	}
}

func (c *Cache) apply(event *types.Event) {
	switch event.Type {
	case types.EventTypeNoteCreated, types.EventTypeNoteModified:
		c.Reparse(event.Path)
	case types.EventTypeNoteDeleted:
		c.Remove(event.Path)
	case types.EventTypeNoteRenamed:
		c.Remove(event.OldPath)
		c.Reparse(event.Path)
	}
}

func forward(ctx context.Context, out chan<- *types.Event, e *types.Event) {
	select {
	case out <- e:
	case <-ctx.Done():
	}
}

// parseFile reads and parses one note. Unreadable files degrade to empty
// metadata; views never see the error.
func parseFile(path string) Meta {
	content, err := os.ReadFile(path)
	if err != nil {
		return Meta{}
	}
	return Parse(content)
}

// Describe renders a short human-readable summary of a note's metadata,
// used by the status bar.
func (c *Cache) Describe(path string) string {
	m, ok := c.Get(path)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d tags, %d links", len(m.Tags), len(m.Links))
}
