// Package config handles loading and saving fold configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/fold/config.yaml
//   - Data:    ~/.local/share/fold/ (documents by default)
//   - State:   ~/.local/state/fold/ (session file fallback, recents index)
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SyncConfig points the session file at a sync-managed directory. When
// Dir is empty or unusable, the session file falls back to the local
// state directory.
type SyncConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// FlagsConfig holds the boolean preference flags.
type FlagsConfig struct {
	// RestorePreviousSession replays the saved session on launch.
	RestorePreviousSession *bool `yaml:"restore_previous_session,omitempty"`
	// AutocompleteEnabled toggles node-title autocomplete while typing.
	AutocompleteEnabled *bool `yaml:"autocomplete_enabled,omitempty"`
}

// Config is the top-level configuration for fold.
type Config struct {
	Flags FlagsConfig `yaml:"flags,omitempty"`
	Sync  SyncConfig  `yaml:"sync,omitempty"`
}

// RestorePreviousSession returns the flag, defaulting to true.
func (c Config) RestorePreviousSession() bool {
	if c.Flags.RestorePreviousSession == nil {
		return true
	}
	return *c.Flags.RestorePreviousSession
}

// AutocompleteEnabled returns the flag, defaulting to true.
func (c Config) AutocompleteEnabled() bool {
	if c.Flags.AutocompleteEnabled == nil {
		return true
	}
	return *c.Flags.AutocompleteEnabled
}

// ConfigDir returns the XDG config directory for fold.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fold")
}

// DataDir returns the XDG data directory for fold.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "fold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "fold")
}

// StateDir returns the XDG state directory for fold.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "fold")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns the zero Config (all defaults) if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns the zero Config if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Sync.Dir = expandHome(cfg.Sync.Dir)
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Store is a Config bound to its file path, with persistence on writes.
// It implements the session coordinator's Settings interface. Failed
// saves are logged and the in-memory value kept, so a read-only config
// directory degrades to per-run settings.
type Store struct {
	cfg  Config
	path string
}

// NewStore loads the config at path (ConfigPath() when empty) and binds
// a Store to it. Load failures degrade to defaults.
func NewStore(path string) *Store {
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		log.Printf("warning: failed to load config, using defaults: %v", err)
	}
	return &Store{cfg: cfg, path: path}
}

// Config returns the current configuration value.
func (s *Store) Config() Config {
	return s.cfg
}

// RestorePreviousSession implements session.Settings.
func (s *Store) RestorePreviousSession() bool {
	return s.cfg.RestorePreviousSession()
}

// SetRestorePreviousSession updates and persists the flag.
func (s *Store) SetRestorePreviousSession(v bool) {
	s.cfg.Flags.RestorePreviousSession = &v
	s.persist()
}

// AutocompleteEnabled implements session.Settings.
func (s *Store) AutocompleteEnabled() bool {
	return s.cfg.AutocompleteEnabled()
}

// SetAutocompleteEnabled updates and persists the flag.
func (s *Store) SetAutocompleteEnabled(v bool) {
	s.cfg.Flags.AutocompleteEnabled = &v
	s.persist()
}

// SyncDir returns the configured sync directory, or "".
func (s *Store) SyncDir() string {
	return s.cfg.Sync.Dir
}

func (s *Store) persist() {
	if s.path == "" {
		return
	}
	if err := SaveTo(s.cfg, s.path); err != nil {
		log.Printf("warning: failed to save config: %v", err)
	}
}
