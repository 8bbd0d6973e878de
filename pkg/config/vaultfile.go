package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// VaultFileName is the optional per-vault override file at the vault root.
const VaultFileName = ".vaultview.yaml"

// vaultFile mirrors the YAML override file. Pointer fields distinguish
// "absent" from zero values so only keys present in the file override.
type vaultFile struct {
	IgnorePatterns *string `yaml:"ignore_patterns"`
	PreviewTheme   *string `yaml:"preview_theme"`
	ShowHidden     *bool   `yaml:"show_hidden"`
}

// MergeVaultFile applies the vault's override file, if present, on top of
// the given settings. A missing file returns the input unchanged; a
// malformed file is an error so typos don't silently fall back.
func MergeVaultFile(vaultRoot string, settings Settings) (Settings, error) {
	path := filepath.Join(vaultRoot, VaultFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read %s: %w", VaultFileName, err)
	}

	var overrides vaultFile
	if err := yaml.Unmarshal(content, &overrides); err != nil {
		return settings, fmt.Errorf("failed to parse %s: %w", VaultFileName, err)
	}

	if overrides.IgnorePatterns != nil {
		settings.IgnorePatterns = *overrides.IgnorePatterns
	}
	if overrides.PreviewTheme != nil {
		settings.PreviewTheme = *overrides.PreviewTheme
	}
	if overrides.ShowHidden != nil {
		settings.ShowHidden = *overrides.ShowHidden
	}
	return settings, nil
}
