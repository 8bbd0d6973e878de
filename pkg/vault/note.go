package vault

import (
	"path/filepath"
	"strings"
	"time"
)

// Note describes a single markdown file in the vault. Derived data (tags,
// links, snippets) lives in the metadata cache, not here.
type Note struct {
	Path    string    // Absolute path on disk
	RelPath string    // Path relative to the vault root, slash-separated
	Title   string    // Basename without the .md extension
	Size    int64     // File size in bytes
	ModTime time.Time // Last modification time
}

// TitleFromPath derives the display title for a note path: the basename
// with the markdown extension stripped.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Folder returns the note's containing folder relative to the vault root,
// or "" for notes at the root.
func (n Note) Folder() string {
	dir := filepath.ToSlash(filepath.Dir(n.RelPath))
	if dir == "." {
		return ""
	}
	return dir
}

// IsMarkdown reports whether path looks like a markdown note.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
