// Package config loads planwire's CLI configuration from planwire.yaml.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all planwire settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Watch   WatchConfig   `yaml:"watch"`
	Batch   BatchConfig   `yaml:"batch"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

// StoreConfig configures decode-record persistence.
type StoreConfig struct {
	// Path of the SQLite database. Empty disables persistence unless a
	// command overrides it.
	Path string `yaml:"path"`
}

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	// Debounce is how long a file must stay quiet before decoding.
	Debounce time.Duration `yaml:"debounce"`
}

// BatchConfig configures parallel conversion.
type BatchConfig struct {
	// Workers bounds concurrent conversions.
	Workers int `yaml:"workers"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Watch:   WatchConfig{Debounce: 500 * time.Millisecond},
		Batch:   BatchConfig{Workers: 4},
	}
}

// Load reads a config file over the defaults. A missing file is not an
// error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Batch.Workers < 1 {
		cfg.Batch.Workers = 1
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = Default().Watch.Debounce
	}
	return cfg, nil
}
