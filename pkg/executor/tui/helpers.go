package tui

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// refreshNotes re-queries the vault's full note list, applies the active
// tag filter, and replaces the list items. This is deliberately a full
// rebuild on every event rather than incremental patching: the vault
// index is the single source of truth, so a rename arriving as
// remove+add can never leave a duplicate row behind.
func (m *model) refreshNotes() {
	notes := m.vault.Notes()

	items := make([]list.Item, 0, len(notes))
	for _, note := range notes {
		meta, _ := m.cache.Get(note.Path)
		if m.filterTag != "" && !meta.HasTag(m.filterTag) {
			continue
		}
		items = append(items, noteItem{
			note:    note,
			tags:    meta.Tags,
			snippet: meta.Snippet,
		})
	}

	m.list.SetItems(items)
	if m.filterTag != "" {
		m.list.Title = fmt.Sprintf("Notes · #%s (%d)", m.filterTag, len(items))
	} else {
		m.list.Title = "Notes"
	}
}

// selectedPath returns the absolute path of the note under the list
// cursor, or "" when the list is empty.
func (m *model) selectedPath() string {
	item, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return ""
	}
	return item.note.Path
}

// renderPreviewCmd renders the selected note's markdown with glamour off
// the UI goroutine.
func (m *model) renderPreviewCmd() tea.Cmd {
	path := m.selectedPath()
	if path == "" {
		return nil
	}
	width := m.preview.Width
	theme := m.settings.PreviewTheme

	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return previewRenderedMsg{path: path, err: err}
		}

		rendered, err := renderMarkdown(string(content), theme, width)
		if err != nil {
			return previewRenderedMsg{path: path, err: err}
		}
		return previewRenderedMsg{path: path, content: rendered}
	}
}

// renderMarkdown renders markdown to ANSI for the preview viewport.
func renderMarkdown(content, theme string, width int) (string, error) {
	if width < 40 {
		width = 40
	}

	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width - 2),
	}
	if theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(theme))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// copySelectedPath puts the selected note's absolute path on the system
// clipboard.
func (m *model) copySelectedPath() {
	path := m.selectedPath()
	if path == "" {
		return
	}
	if err := clipboard.WriteAll(path); err != nil {
		m.notice("clipboard unavailable: %v", err)
		debugLog.Warnf("clipboard write failed: %v", err)
		return
	}
	m.notice("copied %s", path)
}
