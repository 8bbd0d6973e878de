package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the whole interface: tag sidebar on the left, note list or
// preview on the right, status bar at the bottom, settings overlay on top
// when open.
func (m *model) View() string {
	if !m.ready {
		return "Loading vault..."
	}

	sidebar := m.buildSidebar()
	main := m.buildMain()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	status := m.buildStatusBar()

	base := lipgloss.JoinVertical(lipgloss.Left, body, status)

	if m.settingsOpen {
		return m.overlaySettings(base)
	}
	return base
}

// buildSidebar renders the tag index: one row per tag with its note
// count, ordered by the aggregator (descending count, ties alphabetical).
func (m *model) buildSidebar() string {
	width := m.sidebarWidth()
	var sb strings.Builder

	sb.WriteString(sidebarTitleStyle.Render("Tags"))
	sb.WriteByte('\n')

	if len(m.tagCounts) == 0 {
		sb.WriteString(tagCountStyle.Render("no tags"))
	}

	for i, c := range m.tagCounts {
		row := fmt.Sprintf("#%s %s", c.Tag, tagCountStyle.Render(fmt.Sprintf("(%d)", len(c.Paths))))

		style := tagStyle
		switch {
		case c.Tag == m.filterTag:
			style = tagActiveStyle
		case m.focus == focusTags && i == m.tagCursor:
			style = tagSelectedStyle
		}
		if m.focus == focusTags && i == m.tagCursor {
			row = "> " + row
		} else {
			row = "  " + row
		}

		sb.WriteString(style.Render(row))
		sb.WriteByte('\n')
	}

	return sidebarStyle.
		Width(width).
		Height(m.height - 3).
		Render(sb.String())
}

// buildMain renders the note list, the preview, or an explicit empty
// placeholder.
func (m *model) buildMain() string {
	if m.showPreview {
		return m.preview.View()
	}

	if len(m.list.Items()) == 0 {
		if m.filterTag != "" {
			return emptyStyle.Render(fmt.Sprintf("No notes tagged #%s", m.filterTag))
		}
		return emptyStyle.Render("No notes in this vault")
	}

	return m.list.View()
}

// buildStatusBar renders counts, the active filter, and any transient
// notice.
func (m *model) buildStatusBar() string {
	left := fmt.Sprintf("%d notes", m.vault.Count())
	if m.filterTag != "" {
		left += fmt.Sprintf(" · filter: #%s (%d shown)", m.filterTag, len(m.list.Items()))
	}
	if summary := m.cache.Describe(m.selectedPath()); summary != "" {
		left += " · " + summary
	}

	center := "tab: focus · enter: select · p: preview · y: copy path · s: settings · q: quit"
	right := m.vault.Root()

	line := left + "  " + center
	if m.statusNotice != "" {
		line = left + "  " + noticeStyle.Render(m.statusNotice)
	}

	gap := m.width - lipgloss.Width(line) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(line + strings.Repeat(" ", gap) + right)
}

// overlaySettings renders the settings panel centered in the window,
// replacing the base view while open.
func (m *model) overlaySettings(_ string) string {
	panel := lipgloss.JoinVertical(lipgloss.Left,
		overlayTitleStyle.Render("Settings"),
		"",
		"Ignored folders",
		m.settingsInput.View(),
		"",
		overlayHelpStyle.Render("enter: save · esc: cancel"),
	)
	box := overlayBoxStyle.Render(panel)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
