// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefault verifies the built-in defaults.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cloud.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Cloud.BaseURL, DefaultBaseURL)
	}
	if cfg.Cloud.RequestTimeoutSecs != DefaultRequestTimeoutSecs {
		t.Errorf("RequestTimeoutSecs = %d, want %d", cfg.Cloud.RequestTimeoutSecs, DefaultRequestTimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
	if !cfg.Data.EncryptAPIKey {
		t.Error("EncryptAPIKey should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestSaveLoadRoundTrip verifies TOML persistence.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Cloud.OpenRouterKey = "sk-or-v1-test"
	cfg.UI.Theme = "light"
	cfg.Data.Dir = "/tmp/persona-data"

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Cloud.OpenRouterKey != "sk-or-v1-test" {
		t.Errorf("OpenRouterKey = %q", loaded.Cloud.OpenRouterKey)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", loaded.UI.Theme)
	}
	if loaded.Data.Dir != "/tmp/persona-data" {
		t.Errorf("Data.Dir = %q", loaded.Data.Dir)
	}
}

// TestLoadMissingFile verifies a missing config yields defaults without error.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath on missing file: %v", err)
	}
	if cfg.Cloud.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.Cloud.BaseURL)
	}
}

// TestApplyEnvOverrides verifies PERSONA_* variables win over file values.
func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PERSONA_OPENROUTER_KEY", "sk-or-v1-env")
	t.Setenv("PERSONA_BASE_URL", "https://example.com/api/v1")
	t.Setenv("PERSONA_DATA_DIR", "/tmp/env-data")
	t.Setenv("PERSONA_THEME", "LIGHT")
	t.Setenv("PERSONA_TIMEOUT_SECS", "60")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Cloud.OpenRouterKey != "sk-or-v1-env" {
		t.Errorf("OpenRouterKey = %q", cfg.Cloud.OpenRouterKey)
	}
	if cfg.Cloud.BaseURL != "https://example.com/api/v1" {
		t.Errorf("BaseURL = %q", cfg.Cloud.BaseURL)
	}
	if cfg.Data.Dir != "/tmp/env-data" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light (lowercased)", cfg.UI.Theme)
	}
	if cfg.Cloud.RequestTimeoutSecs != 60 {
		t.Errorf("RequestTimeoutSecs = %d, want 60", cfg.Cloud.RequestTimeoutSecs)
	}
}

// TestValidate rejects bad values.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"http localhost allowed", func(c *Config) { c.Cloud.BaseURL = "http://localhost:8080/v1" }, false},
		{"http remote rejected", func(c *Config) { c.Cloud.BaseURL = "http://example.com/v1" }, true},
		{"garbage url", func(c *Config) { c.Cloud.BaseURL = "::not a url" }, true},
		{"empty url", func(c *Config) { c.Cloud.BaseURL = "" }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestDataDirFallback verifies the data dir falls back to the config dir.
func TestDataDirFallback(t *testing.T) {
	cfg := Default()
	cfg.Data.Dir = "/explicit"
	dir, err := cfg.DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if dir != "/explicit" {
		t.Errorf("DataDir = %q, want /explicit", dir)
	}

	cfg.Data.Dir = ""
	dir, err = cfg.DataDir()
	if err != nil {
		t.Fatalf("DataDir fallback: %v", err)
	}
	if filepath.Base(dir) != ".persona" {
		t.Errorf("fallback DataDir = %q, want ~/.persona", dir)
	}
}
