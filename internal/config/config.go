// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user config and data directories.
const AppName = "contactbook"

// ProjectFile is the optional config file read from the working directory.
const ProjectFile = ".contactbook.yaml"

// Config holds all contactbook configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	UI      UI      `yaml:"ui"`
}

// Storage holds persistence settings.
type Storage struct {
	DataDir  string `yaml:"data_dir"`  // Directory holding contacts.json
	FileMode string `yaml:"file_mode"` // Octal permissions for contacts.json, e.g. "0600"
}

// Log holds diagnostic logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
	File  string `yaml:"file"`  // "" = <data_dir>/contactbook.log, "-" = stderr
}

// UI holds terminal UI settings.
type UI struct {
	AltScreen bool `yaml:"alt_screen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			DataDir:  DefaultDataDir(),
			FileMode: "0600",
		},
		Log: Log{
			Level: "info",
		},
		UI: UI{
			AltScreen: true,
		},
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/contactbook, falling back to
// ~/.local/share/contactbook, or ./.contactbook when no home is known.
func DefaultDataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "." + AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// UserPath returns the per-user config file path, or "" if the platform
// has no user config directory.
func UserPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// LogPath resolves the log destination, defaulting to a file in the data directory.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.DataDir, AppName+".log")
}

// FileMode returns storage.file_mode as permission bits. It assumes
// Validate has passed and returns 0600 for an unparsable value.
func (c *Config) FileMode() os.FileMode {
	mode, err := parseFileMode(c.Storage.FileMode)
	if err != nil {
		return 0o600
	}
	return mode
}

// parseFileMode parses an octal permission string such as "0640".
// The owner must keep read and write access.
func parseFileMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("config: storage.file_mode must be octal like \"0600\"; got %q", s)
	}
	mode := os.FileMode(v)
	if mode&^os.ModePerm != 0 {
		return 0, fmt.Errorf("config: storage.file_mode %q has bits outside 0777", s)
	}
	if mode&0o600 != 0o600 {
		return 0, fmt.Errorf("config: storage.file_mode %q must let the owner read and write", s)
	}
	return mode, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return errors.New("config: storage.data_dir cannot be empty")
	}
	if _, err := parseFileMode(c.Storage.FileMode); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTBOOK_DATA_DIR, CONTACTBOOK_LOG_LEVEL, CONTACTBOOK_LOG_FILE.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CONTACTBOOK_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Log     *rawLog     `yaml:"log"`
	UI      *rawUI      `yaml:"ui"`
}

type rawStorage struct {
	DataDir  *string `yaml:"data_dir"`
	FileMode *string `yaml:"file_mode"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

type rawUI struct {
	AltScreen *bool `yaml:"alt_screen"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.DataDir != nil {
			c.Storage.DataDir = *layer.Storage.DataDir
		}
		if layer.Storage.FileMode != nil {
			c.Storage.FileMode = *layer.Storage.FileMode
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
	if layer.UI != nil && layer.UI.AltScreen != nil {
		c.UI.AltScreen = *layer.UI.AltScreen
	}
}
