package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "fschat"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads configuration from ~/.config/fschat/config.json
// and merges it with defaults. Dotfile values override defaults.
// Returns default config if dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
func (l *Loader) Load() (*Config, error) {
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil // Use defaults if can't get home dir
	}

	return l.load(filepath.Join(homeDir, ".config", ConfigDir, ConfigFile), false)
}

// LoadFile reads configuration from an explicit path. Unlike Load, a missing
// file is an error since the caller asked for it by name.
func (l *Loader) LoadFile(path string) (*Config, error) {
	return l.load(path, true)
}

func (l *Loader) load(configPath string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	// Present keys overwrite defaults (even if zero), missing keys keep them.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
