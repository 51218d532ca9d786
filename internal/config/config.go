// Package config loads the indexer's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the indexer settings. Zero fields fall back to defaults.
type Config struct {
	DBPath       string `yaml:"db_path"`
	VaultPath    string `yaml:"vault_path"`
	SnapshotDir  string `yaml:"snapshot_dir"`
	EmbeddingDim int    `yaml:"embedding_dim"`
	FlushIdleMS  int    `yaml:"flush_idle_ms"`
	IdleEveryMS  int    `yaml:"idle_every_ms"` // 0 disables throttling
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		EmbeddingDim: 384,
		FlushIdleMS:  5000,
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = Default().EmbeddingDim
	}
	if cfg.FlushIdleMS <= 0 {
		cfg.FlushIdleMS = Default().FlushIdleMS
	}
	return cfg, nil
}

// FlushIdle returns the debounce window as a duration.
func (c Config) FlushIdle() time.Duration {
	return time.Duration(c.FlushIdleMS) * time.Millisecond
}

// IdleEvery returns the background-run spacing, or 0 when throttling is off.
func (c Config) IdleEvery() time.Duration {
	return time.Duration(c.IdleEveryMS) * time.Millisecond
}
