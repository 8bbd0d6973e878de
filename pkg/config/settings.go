package config

// SectionBrowser is the store section holding the note browser settings.
const SectionBrowser = "browser"

const (
	keyIgnorePatterns = "ignore_patterns"
	keyPreviewTheme   = "preview_theme"
	keyShowHidden     = "show_hidden"
)

// DefaultPreviewTheme is used when no theme has been saved.
const DefaultPreviewTheme = "dark"

// Settings are the browser's persisted preferences. IgnorePatterns is the
// settings panel's text field and is stored verbatim; it is parsed into
// globs only when applied to the vault.
type Settings struct {
	IgnorePatterns string
	PreviewTheme   string
	ShowHidden     bool
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		IgnorePatterns: "",
		PreviewTheme:   DefaultPreviewTheme,
		ShowHidden:     false,
	}
}

// LoadSettings reads the browser section from the store, filling defaults
// for missing keys.
func LoadSettings(store Store) (Settings, error) {
	data, err := store.GetSection(SectionBrowser)
	if err != nil {
		return Settings{}, err
	}

	settings := DefaultSettings()
	if v, ok := data[keyIgnorePatterns].(string); ok {
		settings.IgnorePatterns = v
	}
	if v, ok := data[keyPreviewTheme].(string); ok && v != "" {
		settings.PreviewTheme = v
	}
	if v, ok := data[keyShowHidden].(bool); ok {
		settings.ShowHidden = v
	}
	return settings, nil
}

// SaveSettings writes the browser section to the store and persists it.
func SaveSettings(store Store, settings Settings) error {
	data := map[string]interface{}{
		keyIgnorePatterns: settings.IgnorePatterns,
		keyPreviewTheme:   settings.PreviewTheme,
		keyShowHidden:     settings.ShowHidden,
	}
	if err := store.SetSection(SectionBrowser, data); err != nil {
		return err
	}
	return store.Save()
}
