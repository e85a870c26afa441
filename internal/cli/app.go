// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared application wiring for CLI command handlers.
//
// Every command that touches state goes through NewApp, which loads
// configuration and opens the encrypted store, the artifact index, and
// the OpenRouter client in a consistent order.
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/persona-tui/internal/cloud"
	"github.com/jeranaias/persona-tui/internal/config"
	"github.com/jeranaias/persona-tui/internal/index"
	"github.com/jeranaias/persona-tui/internal/security"
	"github.com/jeranaias/persona-tui/internal/session"
	"github.com/jeranaias/persona-tui/internal/store"
)

// App bundles the long-lived components a command handler needs.
type App struct {
	Config       *config.Config
	Store        *store.Store
	Index        *index.ArtifactIndex
	Client       *cloud.Client
	Orchestrator *session.Orchestrator
}

// NewApp loads configuration and opens every subsystem. The artifact
// index is optional: if it cannot be opened the app still works, with
// search disabled.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	var keeper *security.Keeper
	if cfg.Data.EncryptAPIKey {
		keeper, err = security.NewKeeper(dataDir)
		if err != nil {
			return nil, fmt.Errorf("init encryption: %w", err)
		}
	}

	st, err := store.Open(dataDir, keeper)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// Search index is derived data; a failure here is not fatal.
	idx, err := index.Open(dataDir)
	if err != nil {
		idx = nil
	}

	client := cloud.NewClient(resolveAPIKey(cfg, st)).WithBaseURL(cfg.Cloud.BaseURL)

	return &App{
		Config:       cfg,
		Store:        st,
		Index:        idx,
		Client:       client,
		Orchestrator: session.New(st, client, idx),
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.Index != nil {
		a.Index.Close()
	}
}

// resolveAPIKey returns the key to use for cloud requests. The config
// (and its env override) wins over the stored settings so that
// PERSONA_OPENROUTER_KEY works without touching the state file.
func resolveAPIKey(cfg *config.Config, st *store.Store) string {
	if key := strings.TrimSpace(cfg.Cloud.OpenRouterKey); key != "" {
		return key
	}
	return st.APIKey()
}

// ApplyPersonaFlag switches the active persona for this invocation when
// --persona was given. Accepts a persona id or a case-insensitive name.
func (a *App) ApplyPersonaFlag(args Args) error {
	if args.Persona == "" {
		return nil
	}
	for _, p := range a.Store.Personas() {
		if p.ID == args.Persona || strings.EqualFold(p.Name, args.Persona) {
			return a.Store.SetActivePersona(p.ID)
		}
	}
	return fmt.Errorf("unknown persona: %s", args.Persona)
}

// ApplyModelFlag overrides the selected model for this invocation.
// The override lives on the orchestrator; store state is untouched, so
// later saves cannot leak it into the state file.
func (a *App) ApplyModelFlag(args Args) {
	if args.Model == "" {
		return
	}
	a.Orchestrator.OverrideModel(args.Model)
}
