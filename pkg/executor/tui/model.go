package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ashgrove/vaultview/pkg/config"
	"github.com/ashgrove/vaultview/pkg/metadata"
	"github.com/ashgrove/vaultview/pkg/tags"
	"github.com/ashgrove/vaultview/pkg/types"
	"github.com/ashgrove/vaultview/pkg/vault"
)

// paneFocus identifies which pane receives navigation keys.
type paneFocus int

const (
	focusNotes paneFocus = iota
	focusTags
)

// model is the state of the whole TUI.
type model struct {
	// Bubble Tea components
	list          list.Model
	preview       viewport.Model
	settingsInput textinput.Model

	// Domain collaborators
	vault      *vault.Vault
	cache      *metadata.Cache
	aggregator *tags.Aggregator
	store      config.Store
	settings   config.Settings
	channels   *types.Channels

	// Tag sidebar state
	tagCounts []tags.Count
	tagCursor int

	// Cross-view filter state; empty means unfiltered
	filterTag string

	// UI state
	focus        paneFocus
	showPreview  bool
	settingsOpen bool
	statusNotice string

	// Window dimensions
	width  int
	height int
	ready  bool

	shouldQuit bool
}

// previewRenderedMsg delivers a rendered markdown preview back to Update.
type previewRenderedMsg struct {
	path    string
	content string
	err     error
}

// noteItem adapts a vault note plus its cached metadata to the bubbles
// list item interface.
type noteItem struct {
	note    vault.Note
	tags    []string
	snippet string
}

func (i noteItem) Title() string {
	return i.note.Title
}

func (i noteItem) Description() string {
	parts := []string{i.note.ModTime.Format("2006-01-02 15:04")}
	if folder := i.note.Folder(); folder != "" {
		parts = append(parts, folder)
	}
	if len(i.tags) > 0 {
		badges := make([]string, len(i.tags))
		for n, t := range i.tags {
			badges[n] = "#" + t
		}
		parts = append(parts, strings.Join(badges, " "))
	} else if i.snippet != "" {
		parts = append(parts, i.snippet)
	}
	return strings.Join(parts, " · ")
}

func (i noteItem) FilterValue() string {
	return i.note.Title + " " + strings.Join(i.tags, " ")
}

// initialModel builds the model with the pipeline's current state already
// loaded, so the first frame is complete without waiting for an event.
func initialModel(
	v *vault.Vault,
	cache *metadata.Cache,
	aggregator *tags.Aggregator,
	store config.Store,
	settings config.Settings,
	channels *types.Channels,
) model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(accentBlue).BorderLeftForeground(accentBlue)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(softBlue).BorderLeftForeground(accentBlue)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Notes"
	l.Styles.Title = listTitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "glob patterns, comma separated (e.g. archive/**, templates/**)"
	input.CharLimit = 256
	input.Width = 48

	m := model{
		list:          l,
		preview:       viewport.New(0, 0),
		settingsInput: input,
		vault:         v,
		cache:         cache,
		aggregator:    aggregator,
		store:         store,
		settings:      settings,
		channels:      channels,
		tagCounts:     aggregator.Counts(),
		focus:         focusNotes,
	}
	m.refreshNotes()
	return m
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// publish broadcasts an event on the shared channel without blocking the
// UI goroutine.
func (m *model) publish(e *types.Event) {
	select {
	case m.channels.Event <- e:
	default:
		debugLog.Warnf("event channel full, dropping %s", e.Type)
	}
}

// notice sets the transient status bar message.
func (m *model) notice(format string, v ...interface{}) {
	m.statusNotice = fmt.Sprintf(format, v...)
}
