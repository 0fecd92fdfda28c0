package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appDirName = "neosplus-launcher"
	fileName   = "config.toml"
)

// Config holds the values persisted between runs. An empty CustomInstallDir
// means the auto-detected install path is used.
type Config struct {
	CustomInstallDir  string `toml:"custom-install-dir,omitempty"`
	LauncherArguments string `toml:"launcher-arguments,omitempty"`
}

// FileStore reads and writes a Config as TOML at Path.
type FileStore struct {
	Path string
}

// DefaultPath returns the config file location, using XDG_CONFIG_HOME with a
// fallback to ~/.config on unix-like systems and the OS config dir elsewhere.
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Dir returns the directory holding the config file.
func Dir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	if runtime.GOOS == "linux" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appDirName)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDirName)
}

// NewFileStore returns a store at path, or at DefaultPath when path is empty.
func NewFileStore(path string) *FileStore {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{Path: path}
}

// Load reads the config file. A missing file yields an empty Config.
func (s *FileStore) Load() (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(s.Path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("loading config %s: %w", s.Path, err)
	}
	cfg.CustomInstallDir = strings.TrimSpace(cfg.CustomInstallDir)
	return &cfg, nil
}

// Save writes cfg to the config file, creating its directory if needed.
// The file is written to a temporary sibling first and renamed into place.
func (s *FileStore) Save(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("saving config: nil config")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmpPath := s.Path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	closeErr := f.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encoding config: %w", encErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing config file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
