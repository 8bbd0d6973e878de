// Package main provides the vaultview terminal note browser: a list of
// the markdown notes in a vault, a tag sidebar derived from their
// metadata, and a filter connecting the two, kept current as files change
// on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/ashgrove/vaultview/pkg/config"
	"github.com/ashgrove/vaultview/pkg/executor/tui"
	"github.com/ashgrove/vaultview/pkg/vault"
)

const version = "0.1.0"

// Config holds the command line configuration.
type Config struct {
	VaultDir    string
	ConfigPath  string
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("vaultview v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Fatalf("Application error: %v", err)
	}
}

// parseFlags parses command line flags and environment variables.
func parseFlags() *Config {
	config := &Config{}

	defaultVault := os.Getenv("VAULTVIEW_DIR")
	if defaultVault == "" {
		defaultVault = "."
	}

	flag.StringVar(&config.VaultDir, "vault", defaultVault, "Vault directory (or set VAULTVIEW_DIR env var)")
	flag.StringVar(&config.ConfigPath, "config", "", "Settings file path (default: ~/.vaultview/config.json)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vaultview - a terminal note browser\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vaultview [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  VAULTVIEW_DIR    Vault directory\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vaultview                      # Browse the current directory\n")
		fmt.Fprintf(os.Stderr, "  vaultview -vault ~/notes\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is usable.
func (c *Config) validate() error {
	info, err := os.Stat(c.VaultDir)
	if err != nil {
		return fmt.Errorf("vault directory error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path %q is not a directory", c.VaultDir)
	}
	return nil
}

// run wires the settings store, the vault, and the TUI together.
func run(ctx context.Context, config *Config) error {
	store, err := appconfig.NewFileStore(config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}

	settings, err := appconfig.LoadSettings(store)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// A .vaultview.yaml at the vault root overrides the global settings.
	settings, err = appconfig.MergeVaultFile(config.VaultDir, settings)
	if err != nil {
		return err
	}

	v, err := vault.New(config.VaultDir, settings.IgnorePatterns)
	if err != nil {
		return err
	}
	v.SetShowHidden(settings.ShowHidden)

	executor := tui.NewExecutor(v, store, settings)
	if err := executor.Run(ctx); err != nil {
		return fmt.Errorf("executor error: %w", err)
	}
	return nil
}
