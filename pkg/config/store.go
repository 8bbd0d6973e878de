// Package config persists vaultview settings: a JSON sections file in the
// user's home directory plus an optional per-vault YAML override.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store provides persistence for settings sections. The browser treats
// each section as an opaque blob; typed accessors live in settings.go.
type Store interface {
	// Load reads the settings file from disk.
	Load() error

	// Save writes the settings file to disk.
	Save() error

	// GetSection retrieves the data for a named section. Unknown sections
	// return an empty map.
	GetSection(sectionID string) (map[string]interface{}, error)

	// SetSection stores the data for a named section.
	SetSection(sectionID string, data map[string]interface{}) error
}

// FileStore implements Store using a single JSON file.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]map[string]interface{}
}

// NewFileStore creates a file-based settings store. If path is empty it
// defaults to ~/.vaultview/config.json. A missing file is not an error;
// the store starts empty and the file appears on first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".vaultview", "config.json")
	}

	store := &FileStore{
		path: path,
		data: make(map[string]map[string]interface{}),
	}

	if err := store.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
	}

	return store, nil
}

// Load reads the settings file from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]map[string]interface{})
			return nil
		}
		return fmt.Errorf("failed to open settings file: %w", err)
	}
	defer file.Close()

	var payload struct {
		Sections map[string]map[string]interface{} `json:"sections"`
	}
	if err := json.NewDecoder(file).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode settings file: %w", err)
	}

	if payload.Sections != nil {
		s.data = payload.Sections
	} else {
		s.data = make(map[string]map[string]interface{})
	}
	return nil
}

// Save writes the settings file atomically: encode to a temp file in the
// same directory, then rename over the target.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}

	payload := struct {
		Sections map[string]map[string]interface{} `json:"sections"`
	}{Sections: s.data}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp settings file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// GetSection retrieves a copy of a section's data.
func (s *FileStore) GetSection(sectionID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if data, exists := s.data[sectionID]; exists {
		dataCopy := make(map[string]interface{}, len(data))
		for k, v := range data {
			dataCopy[k] = v
		}
		return dataCopy, nil
	}
	return make(map[string]interface{}), nil
}

// SetSection stores a copy of the given data under a section.
func (s *FileStore) SetSection(sectionID string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataCopy := make(map[string]interface{}, len(data))
	for k, v := range data {
		dataCopy[k] = v
	}
	s.data[sectionID] = dataCopy
	return nil
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}
