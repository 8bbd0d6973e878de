package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/vaultview/pkg/types"
	"github.com/ashgrove/vaultview/pkg/vault"
)

func newTestVault(t *testing.T) (*vault.Vault, string) {
	t.Helper()
	root := t.TempDir()
	v, err := vault.New(root, "")
	require.NoError(t, err)
	return v, root
}

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCacheReindex(t *testing.T) {
	v, root := newTestVault(t)
	write(t, root, "a.md", "body #alpha")
	write(t, root, "b.md", "body #beta")
	_, err := v.Scan()
	require.NoError(t, err)

	c := NewCache(v)
	c.Reindex()

	assert.Equal(t, 2, c.Count())
	snap := c.Snapshot()
	assert.Len(t, snap, 2)
}

func TestCacheReparseAndRemove(t *testing.T) {
	v, root := newTestVault(t)
	path := write(t, root, "a.md", "body #alpha")
	_, err := v.Scan()
	require.NoError(t, err)

	c := NewCache(v)
	c.Reparse(path)

	m, ok := c.Get(path)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha"}, m.Tags)

	write(t, root, "a.md", "body #alpha #gamma")
	c.Reparse(path)
	m, _ = c.Get(path)
	assert.Equal(t, []string{"alpha", "gamma"}, m.Tags)

	c.Remove(path)
	_, ok = c.Get(path)
	assert.False(t, ok)
}

func TestCacheUnreadableFileDegradesToEmpty(t *testing.T) {
	v, _ := newTestVault(t)
	c := NewCache(v)

	c.Reparse("/does/not/exist.md")
	m, ok := c.Get("/does/not/exist.md")
	require.True(t, ok)
	assert.Empty(t, m.Tags)
}

func TestCacheSnapshotIsACopy(t *testing.T) {
	v, root := newTestVault(t)
	path := write(t, root, "a.md", "#alpha")
	c := NewCache(v)
	c.Reparse(path)

	snap := c.Snapshot()
	snap[path][0] = "mutated"

	m, _ := c.Get(path)
	assert.Equal(t, []string{"alpha"}, m.Tags)
}

func TestCacheRunForwardsEventsWithMetadataSignal(t *testing.T) {
	v, root := newTestVault(t)
	path := write(t, root, "a.md", "#alpha")

	c := NewCache(v)
	in := make(chan *types.Event, 4)
	out := make(chan *types.Event, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, in, out)

	in <- types.NewNoteCreatedEvent(path)

	first := recvEvent(t, out)
	assert.Equal(t, types.EventTypeNoteCreated, first.Type)

	second := recvEvent(t, out)
	assert.Equal(t, types.EventTypeMetadataChanged, second.Type)
	assert.Equal(t, path, second.Path)

	// The cache state already reflects the event when the signal lands.
	m, ok := c.Get(path)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha"}, m.Tags)
}

func TestCacheRunDeleteDropsEntry(t *testing.T) {
	v, root := newTestVault(t)
	path := write(t, root, "a.md", "#alpha")

	c := NewCache(v)
	c.Reparse(path)

	in := make(chan *types.Event, 4)
	out := make(chan *types.Event, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, in, out)

	in <- types.NewNoteDeletedEvent(path)
	recvEvent(t, out) // note_deleted
	recvEvent(t, out) // metadata_changed

	_, ok := c.Get(path)
	assert.False(t, ok)
}

func TestCacheRunFilterEventsPassThrough(t *testing.T) {
	v, _ := newTestVault(t)
	c := NewCache(v)

	in := make(chan *types.Event, 4)
	out := make(chan *types.Event, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, in, out)

	in <- types.NewTagFilterEvent("projects")

	e := recvEvent(t, out)
	assert.Equal(t, types.EventTypeTagFilter, e.Type)
	assert.Equal(t, "projects", e.Tag)

	// No metadata signal follows a non-file event.
	select {
	case extra := <-out:
		t.Fatalf("unexpected extra event: %v", extra.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func recvEvent(t *testing.T, ch <-chan *types.Event) *types.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}
