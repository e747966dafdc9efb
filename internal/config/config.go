// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for Atomity.
//
// Settings come from ~/.atomity/config.toml with environment variable
// overrides on top of built-in defaults. The API credential is environment
// only (GEMINI_API_KEY, with .env files honored at startup) and is
// deliberately not a config file field.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete Atomity configuration.
type Config struct {
	// Model is the Generative Language API model name.
	Model string `toml:"model"`

	// Temperature is the fixed sampling temperature for the session.
	Temperature float64 `toml:"temperature"`

	// SystemPromptPath optionally points at a file whose content replaces
	// the built-in system instruction.
	SystemPromptPath string `toml:"system_prompt_path"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`

	// Debug enables debug-level logging.
	Debug bool `toml:"debug"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// ShowTimestamps renders a timestamp beside each message.
	ShowTimestamps bool `toml:"show_timestamps"`

	// MapWidth and MapHeight size the inline map panel in cells.
	MapWidth  int `toml:"map_width"`
	MapHeight int `toml:"map_height"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Model:       "gemini-2.5-flash",
		Temperature: 0.3,
		UI: UIConfig{
			ShowTimestamps: true,
			MapWidth:       60,
			MapHeight:      16,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the Atomity configuration directory (~/.atomity).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".atomity"), nil
}

// Load reads the default config file location, falling back to defaults when
// the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, "config.toml"))
}

// LoadFile reads a specific TOML config file. A missing file is not an
// error; defaults apply.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers ATOMITY_* environment variables over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ATOMITY_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ATOMITY_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("ATOMITY_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.UI.MapWidth < 20 {
		c.UI.MapWidth = 20
	}
	if c.UI.MapHeight < 8 {
		c.UI.MapHeight = 8
	}
	return nil
}

// =============================================================================
// CREDENTIAL
// =============================================================================

// APIKey returns the Gemini credential from the environment. An empty value
// is the configuration error of the session; it surfaces on first use.
func APIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// SystemInstruction returns the override instruction from SystemPromptPath,
// or empty when none is configured or readable.
func (c *Config) SystemInstruction() string {
	if c.SystemPromptPath == "" {
		return ""
	}
	data, err := os.ReadFile(c.SystemPromptPath)
	if err != nil {
		return ""
	}
	return string(data)
}
