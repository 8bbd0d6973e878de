package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ashgrove/vaultview/pkg/types"
)

// handleVaultEvent reacts to events from the vault pipeline. File events
// trigger a full re-query of the note list; the metadata signal triggers
// the tag refold; filter events apply the cross-view filter.
func (m *model) handleVaultEvent(event *types.Event) (tea.Model, tea.Cmd) {
	switch event.Type {
	case types.EventTypeNoteCreated, types.EventTypeNoteDeleted,
		types.EventTypeNoteModified, types.EventTypeNoteRenamed:
		debugLog.Debugf("file event %s: %s", event.Type, event.Path)
		m.refreshNotes()

	case types.EventTypeMetadataChanged:
		m.tagCounts = m.aggregator.Refold(m.cache.Snapshot())
		m.clampTagCursor()
		// Tag badges on list rows may have changed too.
		m.refreshNotes()
		if m.showPreview && event.Path == m.selectedPath() {
			return m, m.renderPreviewCmd()
		}

	case types.EventTypeTagFilter:
		m.filterTag = event.Tag
		m.refreshNotes()
		if event.Tag == "" {
			debugLog.Debugf("filter cleared")
		} else {
			debugLog.Debugf("filter set: #%s", event.Tag)
		}

	case types.EventTypeSettingsChanged:
		// Settings application already refreshed state; nothing to do
		// beyond acknowledging the broadcast.

	case types.EventTypeError:
		m.notice("error: %v", event.Error)
		debugLog.Errorf("pipeline error: %v", event.Error)
	}

	return m, nil
}

// handlePreviewRendered installs rendered preview content, unless the
// selection moved on while rendering.
func (m *model) handlePreviewRendered(msg previewRenderedMsg) (tea.Model, tea.Cmd) {
	if msg.path != m.selectedPath() {
		return m, nil
	}
	if msg.err != nil {
		m.preview.SetContent(errorStyle.Render("preview failed: " + msg.err.Error()))
		return m, nil
	}
	m.preview.SetContent(msg.content)
	m.preview.GotoTop()
	return m, nil
}
