package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/vaultview/pkg/config"
	"github.com/ashgrove/vaultview/pkg/metadata"
	"github.com/ashgrove/vaultview/pkg/tags"
	"github.com/ashgrove/vaultview/pkg/types"
	"github.com/ashgrove/vaultview/pkg/vault"
)

// newTestModel builds a model over a scratch vault with the pipeline's
// startup sequence already applied.
func newTestModel(t *testing.T, notes map[string]string) (*model, *vault.Vault, string) {
	t.Helper()
	initDebugLog()

	root := t.TempDir()
	for rel, content := range notes {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}

	v, err := vault.New(root, "")
	require.NoError(t, err)
	_, err = v.Scan()
	require.NoError(t, err)

	cache := metadata.NewCache(v)
	cache.Reindex()
	aggregator := tags.NewAggregator()
	aggregator.Refold(cache.Snapshot())

	store, err := config.NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	m := initialModel(v, cache, aggregator, store, config.DefaultSettings(), types.NewChannels())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m, v, root
}

func recvPublished(t *testing.T, m *model) *types.Event {
	t.Helper()
	select {
	case e := <-m.channels.Event:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return nil
	}
}

func TestInitialModelListsAllNotes(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md":     "#projects body",
		"sub/b.md": "#ideas body",
	})

	assert.Len(t, m.list.Items(), 2)
	assert.Len(t, m.tagCounts, 2)
}

func TestFilterEventRestrictsList(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md": "#projects body",
		"b.md": "#ideas body",
		"c.md": "#projects more",
	})

	m.Update(types.NewTagFilterEvent("projects"))

	require.Len(t, m.list.Items(), 2)
	assert.Equal(t, "projects", m.filterTag)
	assert.Contains(t, m.list.Title, "#projects")

	// Clearing restores the full list.
	m.Update(types.NewTagFilterEvent(""))
	assert.Len(t, m.list.Items(), 3)
	assert.Equal(t, "Notes", m.list.Title)
}

func TestFilterWithNoMatchesShowsEmptyPlaceholder(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md": "#projects body",
	})

	m.Update(types.NewTagFilterEvent("missing"))
	assert.Empty(t, m.list.Items())
	assert.Contains(t, m.View(), "No notes tagged #missing")
}

func TestEmptyVaultShowsPlaceholder(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	assert.Contains(t, m.View(), "No notes in this vault")
}

func TestFileEventRequeriesList(t *testing.T) {
	m, v, root := newTestModel(t, map[string]string{
		"a.md": "#projects body",
	})

	path := filepath.Join(root, "new.md")
	require.NoError(t, os.WriteFile(path, []byte("#fresh note"), 0600))
	_, err := v.Add(path)
	require.NoError(t, err)

	m.Update(types.NewNoteCreatedEvent(path))
	assert.Len(t, m.list.Items(), 2)
}

func TestRenameAsRemoveAddDoesNotDuplicate(t *testing.T) {
	m, v, root := newTestModel(t, map[string]string{
		"old.md": "#projects body",
	})

	oldPath := filepath.Join(root, "old.md")
	newPath := filepath.Join(root, "new.md")
	require.NoError(t, os.Rename(oldPath, newPath))

	v.Remove(oldPath)
	m.Update(types.NewNoteDeletedEvent(oldPath))
	_, err := v.Add(newPath)
	require.NoError(t, err)
	m.Update(types.NewNoteCreatedEvent(newPath))

	require.Len(t, m.list.Items(), 1)
	item := m.list.Items()[0].(noteItem)
	assert.Equal(t, "new", item.note.Title)
}

func TestMetadataChangedRefoldsTags(t *testing.T) {
	m, _, root := newTestModel(t, map[string]string{
		"a.md": "#projects body",
	})
	require.Len(t, m.tagCounts, 1)

	path := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("#projects #urgent body"), 0600))
	m.cache.Reparse(path)

	m.Update(types.NewMetadataChangedEvent(path))
	assert.Len(t, m.tagCounts, 2)
}

func TestToggleSelectedTagPublishesFilter(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md": "#projects body",
	})
	m.focus = focusTags
	m.tagCursor = 0

	m.toggleSelectedTag()
	e := recvPublished(t, m)
	assert.Equal(t, types.EventTypeTagFilter, e.Type)
	assert.Equal(t, "projects", e.Tag)

	// Selecting the active tag again clears the filter.
	m.filterTag = "projects"
	m.toggleSelectedTag()
	e = recvPublished(t, m)
	assert.Equal(t, "", e.Tag)
}

func TestEscClearsActiveFilterViaBroadcast(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md": "#projects body",
	})
	m.filterTag = "projects"

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	e := recvPublished(t, m)
	assert.Equal(t, types.EventTypeTagFilter, e.Type)
	assert.Equal(t, "", e.Tag)
}

func TestTabSwitchesFocus(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{"a.md": "body"})
	assert.Equal(t, focusNotes, m.focus)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTags, m.focus)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusNotes, m.focus)
}

func TestSidebarRendersCountsInOrder(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md": "#projects one",
		"b.md": "#projects two",
		"c.md": "#ideas three",
	})

	view := m.buildSidebar()
	projectsIdx := strings.Index(view, "#projects")
	ideasIdx := strings.Index(view, "#ideas")
	require.NotEqual(t, -1, projectsIdx)
	require.NotEqual(t, -1, ideasIdx)
	assert.Less(t, projectsIdx, ideasIdx, "higher-count tag should render first")
	assert.Contains(t, view, "(2)")
	assert.Contains(t, view, "(1)")
}

func TestStatusBarSummarizesSelectedNote(t *testing.T) {
	m, _, _ := newTestModel(t, map[string]string{
		"a.md": "#projects body with [[Other Note]]",
	})

	bar := m.buildStatusBar()
	assert.Contains(t, bar, "1 tags, 1 links")
}

func TestNoteItemDescription(t *testing.T) {
	item := noteItem{
		note: vault.Note{
			Title:   "daily",
			RelPath: "journal/daily.md",
			ModTime: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		tags: []string{"journal", "morning"},
	}

	desc := item.Description()
	assert.Contains(t, desc, "journal")
	assert.Contains(t, desc, "#journal #morning")
	assert.Contains(t, desc, "2026-03-01")

	assert.Contains(t, item.FilterValue(), "daily")
	assert.Contains(t, item.FilterValue(), "morning")
}

func TestNoteItemSnippetFallback(t *testing.T) {
	item := noteItem{
		note:    vault.Note{Title: "plain", RelPath: "plain.md", ModTime: time.Now()},
		snippet: "first words of the body",
	}
	assert.Contains(t, item.Description(), "first words of the body")
}
