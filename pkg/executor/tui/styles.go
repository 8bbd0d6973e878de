package tui

import "github.com/charmbracelet/lipgloss"

// Color palette. Single source of truth for all TUI colors.
var (
	accentBlue  = lipgloss.Color("#7AA2F7") // primary accent
	softBlue    = lipgloss.Color("#B4C4F0") // secondary accent
	sageGreen   = lipgloss.Color("#9ECE6A") // active filter / success
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
	warnRed     = lipgloss.Color("#F7768E") // errors
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Foreground(accentBlue).
			Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	sidebarTitleStyle = lipgloss.NewStyle().
				Foreground(accentBlue).
				Bold(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	tagSelectedStyle = lipgloss.NewStyle().
				Foreground(accentBlue).
				Bold(true)

	tagActiveStyle = lipgloss.NewStyle().
			Foreground(sageGreen).
			Bold(true)

	tagCountStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(sageGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(warnRed)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true).
			Padding(1, 2)

	overlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentBlue).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentBlue)

	overlayHelpStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Italic(true)
)
