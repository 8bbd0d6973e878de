package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNote(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}

func TestNewRejectsFile(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, "a.md", "hello")

	_, err := New(path, "")
	assert.Error(t, err)
}

func TestScanFindsMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.md", "# A")
	writeNote(t, root, "sub/b.md", "# B")
	writeNote(t, root, "sub/c.markdown", "# C")
	writeNote(t, root, "sub/skip.txt", "not a note")

	v, err := New(root, "")
	require.NoError(t, err)

	notes, err := v.Scan()
	require.NoError(t, err)
	assert.Len(t, notes, 3)
	assert.Equal(t, 3, v.Count())
}

func TestScanSkipsDottedDirectories(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.md", "# A")
	writeNote(t, root, ".obsidian/workspace.md", "internal")
	writeNote(t, root, ".trash/old.md", "deleted")

	v, err := New(root, "")
	require.NoError(t, err)

	notes, err := v.Scan()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "a", notes[0].Title)
}

func TestShowHiddenIncludesDottedDirectories(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.md", "# A")
	hidden := writeNote(t, root, ".archive/old.md", "# old")

	v, err := New(root, "")
	require.NoError(t, err)

	notes, err := v.Scan()
	require.NoError(t, err)
	require.Len(t, notes, 1)

	v.SetShowHidden(true)
	notes, err = v.Scan()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.False(t, v.Ignored(hidden))

	// Glob patterns still apply to hidden entries.
	require.NoError(t, v.SetIgnorePatterns(".archive/**"))
	notes, err = v.Scan()
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestScanHonorsIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "keep.md", "# keep")
	writeNote(t, root, "archive/old.md", "# old")
	writeNote(t, root, "templates/daily.md", "# template")

	v, err := New(root, "archive/**, templates/**")
	require.NoError(t, err)

	notes, err := v.Scan()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep.md", notes[0].RelPath)
}

func TestCompileIgnorePatternsSkipsEmptySegments(t *testing.T) {
	globs, err := CompileIgnorePatterns("a/**, ,b*")
	require.NoError(t, err)
	assert.Len(t, globs, 2)
}

func TestCompileIgnorePatternsRejectsBadGlob(t *testing.T) {
	_, err := CompileIgnorePatterns("[")
	assert.Error(t, err)
}

func TestSetIgnorePatternsAffectsNextScan(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "keep.md", "# keep")
	writeNote(t, root, "archive/old.md", "# old")

	v, err := New(root, "")
	require.NoError(t, err)

	notes, err := v.Scan()
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	require.NoError(t, v.SetIgnorePatterns("archive/**"))
	notes, err = v.Scan()
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestNotesSortedByModTimeDescending(t *testing.T) {
	root := t.TempDir()
	older := writeNote(t, root, "older.md", "# older")
	newer := writeNote(t, root, "newer.md", "# newer")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	v, err := New(root, "")
	require.NoError(t, err)
	notes, err := v.Scan()
	require.NoError(t, err)

	require.Len(t, notes, 2)
	assert.Equal(t, newer, notes[0].Path)
	assert.Equal(t, older, notes[1].Path)
}

func TestAddAndRemove(t *testing.T) {
	root := t.TempDir()
	v, err := New(root, "")
	require.NoError(t, err)

	path := writeNote(t, root, "new.md", "# new")
	note, err := v.Add(path)
	require.NoError(t, err)
	assert.Equal(t, "new", note.Title)
	assert.Equal(t, 1, v.Count())

	_, ok := v.Get(path)
	assert.True(t, ok)

	v.Remove(path)
	assert.Equal(t, 0, v.Count())

	// Removing twice is a no-op.
	v.Remove(path)
	assert.Equal(t, 0, v.Count())
}

func TestAddRejectsNonMarkdown(t *testing.T) {
	root := t.TempDir()
	v, err := New(root, "")
	require.NoError(t, err)

	path := writeNote(t, root, "notes.txt", "plain")
	_, err = v.Add(path)
	assert.Error(t, err)
}

func TestAddRejectsIgnoredPath(t *testing.T) {
	root := t.TempDir()
	v, err := New(root, "drafts/**")
	require.NoError(t, err)

	path := writeNote(t, root, "drafts/wip.md", "# wip")
	_, err = v.Add(path)
	assert.Error(t, err)
}

func TestNoteHelpers(t *testing.T) {
	assert.Equal(t, "daily", TitleFromPath("/v/journal/daily.md"))
	assert.True(t, IsMarkdown("a.MD"))
	assert.False(t, IsMarkdown("a.txt"))

	n := Note{RelPath: "journal/daily.md"}
	assert.Equal(t, "journal", n.Folder())

	top := Note{RelPath: "daily.md"}
	assert.Equal(t, "", top.Folder())
}
