// Package file provides the TOML-backed configuration store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore
// using TOML. Configuration lives in the creek config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.creek/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".creek")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads configuration from the TOML file. A missing file yields
// the defaults so a fresh install works before config init.
func (s *ConfigStore) Load() (domain.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	if cfg.Timezone == "" {
		cfg.Timezone = normalise.CanonicalZone
	}
	if err := normalise.ValidateZone(cfg.Timezone); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save persists the configuration to disk.
func (s *ConfigStore) Save(cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
