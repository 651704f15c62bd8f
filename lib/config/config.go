// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads QuizForge configuration.
//
// Configuration comes from a single YAML file named by:
//   - the QUIZFORGE_CONFIG environment variable, or
//   - the --config flag passed to the command.
//
// There are no discovery fallbacks and environment variables do not
// override file values. This keeps configuration deterministic and
// auditable: what the file says is what runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the quizforge tool.
type Config struct {
	// API configures the backend connection.
	API APIConfig `yaml:"api"`

	// Paths configures local directories.
	Paths PathsConfig `yaml:"paths"`

	// Review configures review-view behavior.
	Review ReviewConfig `yaml:"review"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the backend API root, e.g.
	// "https://qforge.internal/api". Required.
	BaseURL string `yaml:"base_url"`

	// AccessKey is the static shared key used when no login session
	// exists, and the secret the stream URL carries.
	AccessKey string `yaml:"access_key"`
}

// PathsConfig configures local directories.
type PathsConfig struct {
	// State is where the session file and logs live.
	// Default: ~/.local/state/quizforge
	State string `yaml:"state"`

	// Keymap is an optional JSONC file overriding review key
	// bindings. Empty means built-in bindings.
	Keymap string `yaml:"keymap"`
}

// ReviewConfig configures review-view behavior.
type ReviewConfig struct {
	// CompletionGrace is how long the live view lingers on a finished
	// job before switching to review. Default: 1.5s.
	CompletionGrace Duration `yaml:"completion_grace"`

	// RefreshInterval is the auxiliary-panel poll interval.
	// Default: 30s.
	RefreshInterval Duration `yaml:"refresh_interval"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "1.5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the base configuration applied before the file is
// read. The file is still required; these exist so optional fields
// have sensible values, not as a substitute for configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Paths: PathsConfig{
			State: filepath.Join(homeDir, ".local", "state", "quizforge"),
		},
		Review: ReviewConfig{
			CompletionGrace: Duration(1500 * time.Millisecond),
			RefreshInterval: Duration(30 * time.Second),
		},
	}
}

// Load reads the file named by QUIZFORGE_CONFIG. Fails when the
// variable is unset; there is no automatic discovery.
func Load() (*Config, error) {
	configPath := os.Getenv("QUIZFORGE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("config: QUIZFORGE_CONFIG is not set; " +
			"point it at your quizforge.yaml or pass --config")
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return loaded, nil
}

// Validate checks the loaded configuration for required fields.
func (config *Config) Validate() error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if config.Review.CompletionGrace < 0 {
		return fmt.Errorf("review.completion_grace must not be negative")
	}
	if config.Review.RefreshInterval <= 0 {
		return fmt.Errorf("review.refresh_interval must be positive")
	}
	return nil
}
