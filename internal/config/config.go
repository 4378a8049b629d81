package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Config holds the shell's own settings. The widget's behaviour comes from
// the embed tag (see Embed); this is how the terminal host runs it.
type Config struct {
	// Storage is the tab storage backend: memory, file or sqlite.
	Storage string `json:"storage" env:"SMARTBOT_STORAGE"`
	// TabID scopes tab storage. Reusing an id resumes that tab.
	TabID string `json:"tabId,omitempty" env:"SMARTBOT_TAB_ID"`
	// PageURL is reported to the backend as the hosting page.
	PageURL       string `json:"pageUrl" env:"SMARTBOT_PAGE_URL"`
	Preset        string `json:"preset" env:"SMARTBOT_PRESET"`
	Notifications bool   `json:"notifications" env:"SMARTBOT_NOTIFICATIONS"`
	LogFile       string `json:"logFile,omitempty" env:"SMARTBOT_LOG_FILE"`
	LogLevel      string `json:"logLevel" env:"SMARTBOT_LOG_LEVEL"`
	BeaconDrain   int    `json:"beaconDrainMs" env:"SMARTBOT_BEACON_DRAIN_MS"`
}

// Storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Defaults
const (
	DefaultStorage       = StorageMemory
	DefaultPreset        = "comfort"
	DefaultLogLevel      = "info"
	DefaultBeaconDrainMs = 300
	DefaultPageURL       = "terminal://smartbot-widget"
)

// DefaultConfigDir returns the platform-appropriate config directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "smartbot-widget")
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, ".config", "smartbot-widget")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "smartbot-widget")
		}
		return filepath.Join(home, ".config", "smartbot-widget")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "smartbot-widget")
		}
		return filepath.Join(home, ".config", "smartbot-widget")
	}
}

// Load reads the config file from the default location.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(DefaultConfigDir(), "config.json"))
}

// LoadFrom reads the config file at path, returning defaults for missing
// fields, then applies SMARTBOT_* environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg *Config) error {
	return SaveTo(filepath.Join(DefaultConfigDir(), "config.json"), cfg)
}

// SaveTo writes the config to path atomically.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename config: %w", err)
	}

	return nil
}

// Validate rejects settings the shell cannot run with.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want memory, file or sqlite)", c.Storage)
	}
	if c.BeaconDrain < 0 {
		return fmt.Errorf("beaconDrainMs must not be negative")
	}
	return nil
}

// EnsureTabID assigns a fresh tab id when none is configured, the same as
// opening a new browser tab.
func (c *Config) EnsureTabID() string {
	if c.TabID == "" {
		c.TabID = uuid.NewString()
	}
	return c.TabID
}

// BeaconDrainDuration returns how long exit waits for outstanding teardowns.
func (c *Config) BeaconDrainDuration() time.Duration {
	return time.Duration(c.BeaconDrain) * time.Millisecond
}

// LogPath returns the configured log file or the default one.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(DefaultConfigDir(), "widget.log")
}

// TabsDir returns the directory of the file storage backend.
func TabsDir() string {
	return filepath.Join(DefaultConfigDir(), "tabs")
}

// TabsDBPath returns the database path of the sqlite storage backend.
func TabsDBPath() string {
	return filepath.Join(DefaultConfigDir(), "tabs.db")
}

func defaults() *Config {
	return &Config{
		Storage:     DefaultStorage,
		PageURL:     DefaultPageURL,
		Preset:      DefaultPreset,
		LogLevel:    DefaultLogLevel,
		BeaconDrain: DefaultBeaconDrainMs,
	}
}

func applyDefaults(cfg *Config) {
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if cfg.Storage == "" {
		cfg.Storage = DefaultStorage
	}
	if cfg.PageURL == "" {
		cfg.PageURL = DefaultPageURL
	}
	if cfg.Preset == "" {
		cfg.Preset = DefaultPreset
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
