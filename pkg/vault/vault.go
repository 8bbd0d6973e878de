// Package vault provides filesystem access to a directory tree of markdown
// notes: scanning, an in-memory note index, and a watcher that translates
// filesystem activity into typed vault events.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Vault is the notes directory tree. It maintains an index of markdown
// files refreshed by Scan and kept current by the Watcher. All methods are
// safe for concurrent use.
type Vault struct {
	root       string
	mu         sync.RWMutex
	notes      map[string]Note // keyed by absolute path
	ignore     []glob.Glob
	showHidden bool
}

// New creates a vault rooted at dir. The directory must exist. Ignore
// patterns use glob syntax and match against slash-separated paths
// relative to the root.
func New(dir string, ignorePatterns string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault directory error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %q is not a directory", dir)
	}

	globs, err := CompileIgnorePatterns(ignorePatterns)
	if err != nil {
		return nil, err
	}

	return &Vault{
		root:   abs,
		notes:  make(map[string]Note),
		ignore: globs,
	}, nil
}

// Root returns the absolute vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// CompileIgnorePatterns compiles a comma-separated glob pattern list.
// Empty segments are skipped, so "a/**, ,b*" yields two patterns.
func CompileIgnorePatterns(patterns string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, raw := range strings.Split(patterns, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// SetIgnorePatterns replaces the ignore pattern set. The caller is
// expected to rescan afterwards so the index reflects the new patterns.
func (v *Vault) SetIgnorePatterns(patterns string) error {
	globs, err := CompileIgnorePatterns(patterns)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.ignore = globs
	return nil
}

// SetShowHidden controls whether dotted files and directories are
// excluded. The caller is expected to rescan afterwards.
func (v *Vault) SetShowHidden(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showHidden = show
}

// Ignored reports whether the given absolute path is excluded by the
// current ignore patterns or, unless show hidden is set, lives under a
// dotted entry.
func (v *Vault) Ignored(path string) bool {
	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.showHidden {
		for _, part := range strings.Split(rel, "/") {
			if strings.HasPrefix(part, ".") && part != "." {
				return true
			}
		}
	}

	for _, g := range v.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Scan rebuilds the note index by walking the vault tree. Unreadable
// entries are skipped rather than failing the whole walk.
func (v *Vault) Scan() ([]Note, error) {
	found := make(map[string]Note)

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip unreadable subtrees; the rest of the vault still loads.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != v.root && v.Ignored(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsMarkdown(path) || v.Ignored(path) {
			return nil
		}

		note, err := v.stat(path)
		if err != nil {
			return nil
		}
		found[path] = note
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	v.mu.Lock()
	v.notes = found
	v.mu.Unlock()

	return v.Notes(), nil
}

// Notes returns a snapshot of the current index sorted by modification
// time, most recent first. Ties break on the relative path so the order
// is stable.
func (v *Vault) Notes() []Note {
	v.mu.RLock()
	defer v.mu.RUnlock()

	notes := make([]Note, 0, len(v.notes))
	for _, n := range v.notes {
		notes = append(notes, n)
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].ModTime.Equal(notes[j].ModTime) {
			return notes[i].ModTime.After(notes[j].ModTime)
		}
		return notes[i].RelPath < notes[j].RelPath
	})

	return notes
}

// Get returns the indexed note for an absolute path.
func (v *Vault) Get(path string) (Note, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	n, ok := v.notes[path]
	return n, ok
}

// Count returns the number of indexed notes.
func (v *Vault) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.notes)
}

// Add stats the file at path and inserts or refreshes its index entry.
// Non-markdown and ignored paths are rejected.
func (v *Vault) Add(path string) (Note, error) {
	if !IsMarkdown(path) {
		return Note{}, fmt.Errorf("not a markdown note: %s", path)
	}
	if v.Ignored(path) {
		return Note{}, fmt.Errorf("path is ignored: %s", path)
	}

	note, err := v.stat(path)
	if err != nil {
		return Note{}, err
	}

	v.mu.Lock()
	v.notes[path] = note
	v.mu.Unlock()
	return note, nil
}

// Remove drops the index entry for path. Removing an unknown path is a
// no-op so delete events can be applied idempotently.
func (v *Vault) Remove(path string) {
	v.mu.Lock()
	delete(v.notes, path)
	v.mu.Unlock()
}

func (v *Vault) stat(path string) (Note, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Note{}, fmt.Errorf("failed to stat note: %w", err)
	}

	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return Note{}, fmt.Errorf("note outside vault root: %w", err)
	}

	return Note{
		Path:    path,
		RelPath: filepath.ToSlash(rel),
		Title:   TitleFromPath(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
