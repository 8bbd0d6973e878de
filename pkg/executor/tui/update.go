package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ashgrove/vaultview/pkg/config"
	"github.com/ashgrove/vaultview/pkg/logging"
	"github.com/ashgrove/vaultview/pkg/types"
)

var debugLog *logging.Logger

func initDebugLog() {
	if debugLog != nil {
		return
	}
	// NewLogger degrades to a stderr logger on error, so the handle is
	// always usable.
	logger, _ := logging.NewLogger("tui")
	debugLog = logger
}

// Update handles all state updates for the TUI model.
//
// Pointer receiver: overlay and list mutations must persist across
// messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.shouldQuit {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()
		m.ready = true
		return m, nil

	case *types.Event:
		return m.handleVaultEvent(msg)

	case previewRenderedMsg:
		return m.handlePreviewRendered(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// handleKey routes keyboard input based on the active overlay and focus.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settingsOpen {
		return m.handleSettingsKey(msg)
	}

	// While the list's fuzzy filter prompt is active it owns the keyboard.
	if m.list.FilterState() == list.Filtering {
		return m.updateFocused(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.shouldQuit = true
		return m, tea.Quit

	case "tab":
		if m.focus == focusNotes {
			m.focus = focusTags
		} else {
			m.focus = focusNotes
		}
		return m, nil

	case "s":
		m.openSettings()
		return m, nil

	case "p":
		m.showPreview = !m.showPreview
		if m.showPreview {
			return m, m.renderPreviewCmd()
		}
		return m, nil

	case "y":
		m.copySelectedPath()
		return m, nil

	case "esc":
		if m.filterTag != "" {
			// Broadcast the cleared filter so every subscriber resets.
			m.publish(types.NewTagFilterEvent(""))
			return m, nil
		}
		return m.updateFocused(msg)

	case "enter":
		if m.focus == focusTags {
			m.toggleSelectedTag()
			return m, nil
		}
		if m.showPreview {
			return m, m.renderPreviewCmd()
		}
		m.showPreview = true
		return m, m.renderPreviewCmd()

	case "up", "k":
		if m.focus == focusTags {
			if m.tagCursor > 0 {
				m.tagCursor--
			}
			return m, nil
		}

	case "down", "j":
		if m.focus == focusTags {
			if m.tagCursor < len(m.tagCounts)-1 {
				m.tagCursor++
			}
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

// handleSettingsKey drives the settings overlay: esc cancels, enter saves
// and applies.
func (m *model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.settingsOpen = false
		return m, nil

	case "enter":
		return m, m.applySettings()
	}

	var cmd tea.Cmd
	m.settingsInput, cmd = m.settingsInput.Update(msg)
	return m, cmd
}

// openSettings shows the settings overlay, seeded with the saved value.
func (m *model) openSettings() {
	m.settingsOpen = true
	m.settingsInput.SetValue(m.settings.IgnorePatterns)
	m.settingsInput.CursorEnd()
	m.settingsInput.Focus()
}

// applySettings persists the panel's text field verbatim and applies the
// new ignore patterns to the vault immediately.
func (m *model) applySettings() tea.Cmd {
	value := m.settingsInput.Value()
	m.settingsOpen = false

	if err := m.vault.SetIgnorePatterns(value); err != nil {
		m.notice("invalid ignore patterns: %v", err)
		debugLog.Warnf("rejected ignore patterns %q: %v", value, err)
		return nil
	}

	m.settings.IgnorePatterns = value
	if err := config.SaveSettings(m.store, m.settings); err != nil {
		m.notice("failed to save settings: %v", err)
		debugLog.Errorf("settings save failed: %v", err)
		return nil
	}

	// The pattern change alters the note set: rescan and reindex, then
	// refold before anyone re-queries.
	if _, err := m.vault.Scan(); err != nil {
		m.notice("rescan failed: %v", err)
		return nil
	}
	m.cache.Reindex()
	m.tagCounts = m.aggregator.Refold(m.cache.Snapshot())
	m.clampTagCursor()
	m.refreshNotes()

	m.notice("settings saved")
	m.publish(types.NewSettingsChangedEvent())
	debugLog.Infof("settings applied, %d notes indexed", m.vault.Count())
	return nil
}

// toggleSelectedTag publishes the cross-view filter signal for the tag
// under the cursor. Selecting the active tag clears the filter.
func (m *model) toggleSelectedTag() {
	if m.tagCursor < 0 || m.tagCursor >= len(m.tagCounts) {
		return
	}
	tag := m.tagCounts[m.tagCursor].Tag
	if tag == m.filterTag {
		tag = ""
	}
	m.publish(types.NewTagFilterEvent(tag))
}

// updateFocused forwards a message to the component that should consume
// it.
func (m *model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.showPreview {
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// recalculateLayout resizes components after a window size change.
func (m *model) recalculateLayout() {
	sidebar := m.sidebarWidth()
	mainWidth := m.width - sidebar - 2
	mainHeight := m.height - 3 // status bar + padding

	if mainWidth < 20 {
		mainWidth = 20
	}
	if mainHeight < 5 {
		mainHeight = 5
	}

	m.list.SetSize(mainWidth, mainHeight)
	m.preview.Width = mainWidth
	m.preview.Height = mainHeight
}

func (m *model) sidebarWidth() int {
	const w = 28
	if m.width < 80 {
		return 20
	}
	return w
}

func (m *model) clampTagCursor() {
	if m.tagCursor >= len(m.tagCounts) {
		m.tagCursor = len(m.tagCounts) - 1
	}
	if m.tagCursor < 0 {
		m.tagCursor = 0
	}
}
