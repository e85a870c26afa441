// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete persona configuration.
type Config struct {
	// Version of the config schema
	Version string `toml:"version" json:"version"`

	// Cloud (OpenRouter) configuration
	Cloud CloudConfig `toml:"cloud" json:"cloud"`

	// Data configuration
	Data DataConfig `toml:"data" json:"data"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// CloudConfig contains cloud provider (OpenRouter) configuration.
type CloudConfig struct {
	// OpenRouterKey is the OpenRouter API key. Used as a bootstrap value
	// only; once the state file exists the key there wins.
	OpenRouterKey string `toml:"openrouter_key" json:"openrouter_key"`
	// BaseURL is the OpenRouter API base URL
	BaseURL string `toml:"base_url" json:"base_url"`
	// RequestTimeoutSecs is the timeout for non-streaming requests in seconds
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
}

// DataConfig contains data directory configuration.
type DataConfig struct {
	// Dir is the directory holding the state file, key material, and the
	// artifact search index (empty = ~/.persona)
	Dir string `toml:"dir" json:"dir"`
	// EncryptAPIKey controls whether the API key is encrypted at rest
	EncryptAPIKey bool `toml:"encrypt_api_key" json:"encrypt_api_key"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI color theme: "dark" or "light"
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps displays message timestamps in the transcript
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultBaseURL is the OpenRouter API endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// DefaultRequestTimeoutSecs bounds non-streaming requests.
const DefaultRequestTimeoutSecs = 30

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Cloud: CloudConfig{
			BaseURL:            DefaultBaseURL,
			RequestTimeoutSecs: DefaultRequestTimeoutSecs,
		},
		Data: DataConfig{
			EncryptAPIKey: true,
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: false,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the persona configuration directory (~/.persona).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".persona"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir resolves the data directory, falling back to the config directory
// when unset.
func (c *Config) DataDir() (string, error) {
	if c.Data.Dir != "" {
		return c.Data.Dir, nil
	}
	return ConfigDir()
}

// RequestTimeout returns the non-streaming request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	secs := c.Cloud.RequestTimeoutSecs
	if secs <= 0 {
		secs = DefaultRequestTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

// ensureSecurePermissions tightens config file permissions to 0600.
// SECURITY: The config file can hold an API key; group/other access is an
// information disclosure.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0077 != 0 {
		return os.Chmod(path, 0600)
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration file, applies environment overrides, and
// validates the result. A missing file yields defaults, not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		// SECURITY: Check and fix file permissions if needed
		if err := ensureSecurePermissions(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// SECURITY: Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# persona configuration file")
	fmt.Fprintln(file, "# Generated by persona - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// DEFAULTS / VALIDATION / ENV OVERRIDES
// =============================================================================

// SetDefaults fills any zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = DefaultBaseURL
	}
	if c.Cloud.RequestTimeoutSecs <= 0 {
		c.Cloud.RequestTimeoutSecs = DefaultRequestTimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "dark"
	}
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Cloud.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("cloud.base_url is not a valid URL: %q", c.Cloud.BaseURL)
	}
	// SECURITY: API keys must not travel over cleartext HTTP.
	if u.Scheme != "https" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		return fmt.Errorf("cloud.base_url must use https: %q", c.Cloud.BaseURL)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\": %q", c.UI.Theme)
	}
	return nil
}

// ApplyEnvOverrides applies PERSONA_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	// PERSONA_OPENROUTER_KEY
	if key := os.Getenv("PERSONA_OPENROUTER_KEY"); key != "" {
		c.Cloud.OpenRouterKey = key
	}

	// PERSONA_BASE_URL
	if base := os.Getenv("PERSONA_BASE_URL"); base != "" {
		c.Cloud.BaseURL = base
	}

	// PERSONA_DATA_DIR
	if dir := os.Getenv("PERSONA_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}

	// PERSONA_THEME
	if theme := os.Getenv("PERSONA_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}

	// PERSONA_TIMEOUT_SECS
	if secs := os.Getenv("PERSONA_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Cloud.RequestTimeoutSecs = n
		}
	}
}
