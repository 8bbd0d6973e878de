package types

// VaultEventType defines the type of event flowing between the vault,
// the metadata cache, and the views.
type VaultEventType string

const (
	EventTypeNoteCreated     VaultEventType = "note_created"     // EventTypeNoteCreated indicates a markdown note appeared in the vault.
	EventTypeNoteDeleted     VaultEventType = "note_deleted"     // EventTypeNoteDeleted indicates a markdown note was removed from the vault.
	EventTypeNoteModified    VaultEventType = "note_modified"    // EventTypeNoteModified indicates a note's content changed on disk.
	EventTypeNoteRenamed     VaultEventType = "note_renamed"     // EventTypeNoteRenamed indicates a note moved; delivered alongside a delete/create pair.
	EventTypeMetadataChanged VaultEventType = "metadata_changed" // EventTypeMetadataChanged indicates the metadata cache finished reindexing after a vault event.
	EventTypeTagFilter       VaultEventType = "tag_filter"       // EventTypeTagFilter carries the cross-view filter tag; empty tag means unfiltered.
	EventTypeSettingsChanged VaultEventType = "settings_changed" // EventTypeSettingsChanged indicates persisted settings were updated and applied.
	EventTypeError           VaultEventType = "error"            // EventTypeError indicates a background failure views may want to surface.
)

// Event is the single message type broadcast on the shared channel.
// Only the fields relevant to the event's Type are populated.
type Event struct {
	// Type indicates the kind of event.
	Type VaultEventType

	// Path is the absolute path of the note the event refers to.
	Path string

	// OldPath is the previous path for rename events.
	OldPath string

	// Tag is the filter tag for tag filter events; empty clears the filter.
	Tag string

	// Error contains failure information for error events.
	Error error
}

// Channels bundles the event stream shared between the pipeline and its
// subscribers. The buffer absorbs editor write bursts without blocking
// the watcher goroutine.
type Channels struct {
	Event chan *Event
}

// NewChannels creates the shared channel set.
func NewChannels() *Channels {
	return &Channels{
		Event: make(chan *Event, 64),
	}
}

// NewNoteCreatedEvent creates a note created event.
func NewNoteCreatedEvent(path string) *Event {
	return &Event{Type: EventTypeNoteCreated, Path: path}
}

// NewNoteDeletedEvent creates a note deleted event.
func NewNoteDeletedEvent(path string) *Event {
	return &Event{Type: EventTypeNoteDeleted, Path: path}
}

// NewNoteModifiedEvent creates a note modified event.
func NewNoteModifiedEvent(path string) *Event {
	return &Event{Type: EventTypeNoteModified, Path: path}
}

// NewNoteRenamedEvent creates a note renamed event.
func NewNoteRenamedEvent(oldPath, newPath string) *Event {
	return &Event{Type: EventTypeNoteRenamed, OldPath: oldPath, Path: newPath}
}

// NewMetadataChangedEvent creates a metadata changed event for the given note.
func NewMetadataChangedEvent(path string) *Event {
	return &Event{Type: EventTypeMetadataChanged, Path: path}
}

// NewTagFilterEvent creates a cross-view tag filter event. An empty tag
// clears the active filter.
func NewTagFilterEvent(tag string) *Event {
	return &Event{Type: EventTypeTagFilter, Tag: tag}
}

// NewSettingsChangedEvent creates a settings changed event.
func NewSettingsChangedEvent() *Event {
	return &Event{Type: EventTypeSettingsChanged}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(err error) *Event {
	return &Event{Type: EventTypeError, Error: err}
}

// IsFileEvent returns true if this event describes a change to a note file.
func (e *Event) IsFileEvent() bool {
	return e.Type == EventTypeNoteCreated ||
		e.Type == EventTypeNoteDeleted ||
		e.Type == EventTypeNoteModified ||
		e.Type == EventTypeNoteRenamed
}

// IsFilterEvent returns true if this is a cross-view filter event.
func (e *Event) IsFilterEvent() bool {
	return e.Type == EventTypeTagFilter
}

// IsErrorEvent returns true if this is an error event.
func (e *Event) IsErrorEvent() bool {
	return e.Type == EventTypeError
}
