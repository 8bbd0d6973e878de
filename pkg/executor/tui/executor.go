// Package tui provides the terminal interface for vaultview: a note list,
// a tag sidebar, a markdown preview, and a settings overlay, mounted in a
// single Bubble Tea program.
//
// The package is split across files in the usual shape:
// - executor.go: program lifecycle and event plumbing
// - model.go: model structure and state
// - update.go: Bubble Tea Update function and key handling
// - view.go: Bubble Tea View function and rendering
// - events.go: vault event processing
// - helpers.go: list building, preview rendering, clipboard
// - styles.go: color palette and styles
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ashgrove/vaultview/pkg/config"
	"github.com/ashgrove/vaultview/pkg/metadata"
	"github.com/ashgrove/vaultview/pkg/tags"
	"github.com/ashgrove/vaultview/pkg/types"
	"github.com/ashgrove/vaultview/pkg/vault"
)

// Executor wires the vault pipeline into a Bubble Tea program and runs it.
type Executor struct {
	vault      *vault.Vault
	cache      *metadata.Cache
	aggregator *tags.Aggregator
	store      config.Store
	settings   config.Settings
	channels   *types.Channels
	program    *tea.Program
}

// NewExecutor creates a TUI executor over an already-constructed vault and
// settings store. The vault does not need to be scanned yet; Run does the
// initial scan.
func NewExecutor(v *vault.Vault, store config.Store, settings config.Settings) *Executor {
	return &Executor{
		vault:      v,
		cache:      metadata.NewCache(v),
		aggregator: tags.NewAggregator(),
		store:      store,
		settings:   settings,
		channels:   types.NewChannels(),
	}
}

// Run performs the initial scan, starts the watcher and cache pipeline,
// and blocks in the Bubble Tea event loop until the user exits.
func (e *Executor) Run(ctx context.Context) error {
	initDebugLog()
	debugLog.Infof("TUI executor starting, vault: %s", e.vault.Root())

	if _, err := e.vault.Scan(); err != nil {
		return fmt.Errorf("initial vault scan failed: %w", err)
	}
	e.cache.Reindex()
	e.aggregator.Refold(e.cache.Snapshot())
	debugLog.Infof("initial index: %d notes, %d tags", e.vault.Count(), len(e.aggregator.Counts()))

	// Watcher feeds raw note events into the cache, which republishes them
	// with metadata signals on the shared channel the views consume.
	rawEvents := make(chan *types.Event, 64)
	watcher, err := vault.NewWatcher(e.vault, rawEvents)
	if err != nil {
		return fmt.Errorf("failed to create vault watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start vault watcher: %w", err)
	}
	defer watcher.Stop()

	go e.cache.Run(ctx, rawEvents, e.channels.Event)

	m := initialModel(e.vault, e.cache, e.aggregator, e.store, e.settings, e.channels)

	e.program = tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		// Forward pipeline events to the TUI. Filter events published by
		// the views travel the same channel, so every subscriber sees the
		// same broadcast.
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-e.channels.Event:
				if event.Type == types.EventTypeSettingsChanged {
					// New ignore patterns can unhide directories that were
					// skipped when watches were first registered.
					if err := watcher.Rewatch(); err != nil {
						debugLog.Warnf("watch re-registration failed: %v", err)
					}
				}
				e.program.Send(event)
			}
		}
	}()

	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
