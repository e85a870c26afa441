// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command for persona.
//
// Command: status
// Aliases: s
//
// Shows where state lives and a summary of what is in it. The API key
// is only ever shown as a fingerprint.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// statusReport is the JSON shape of the status command.
type statusReport struct {
	Version        string `json:"version"`
	DataDir        string `json:"data_dir"`
	BaseURL        string `json:"base_url"`
	KeyConfigured  bool   `json:"key_configured"`
	KeyFingerprint string `json:"key_fingerprint"`
	ActivePersona  string `json:"active_persona"`
	Personas       int    `json:"personas"`
	Conversations  int    `json:"conversations"`
	Artifacts      int    `json:"artifacts"`
	IndexedCount   int    `json:"indexed_artifacts"`
	Theme          string `json:"theme"`
}

// HandleStatus prints a configuration and state summary.
func HandleStatus(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	dataDir, _ := app.Config.DataDir()
	report := statusReport{
		Version:        Version,
		DataDir:        dataDir,
		BaseURL:        app.Config.Cloud.BaseURL,
		KeyConfigured:  app.Client.IsConfigured(),
		KeyFingerprint: app.Client.KeyFingerprint(),
		ActivePersona:  app.Store.ActivePersona().Name,
		Personas:       len(app.Store.Personas()),
		Conversations:  len(app.Store.Conversations()),
		Artifacts:      len(app.Store.Artifacts()),
		Theme:          app.Store.Settings().Theme,
	}
	if app.Index != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		report.IndexedCount, _ = app.Index.Count(ctx)
		cancel()
	}

	if args.JSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(TitleStyle.Render("persona status"))
	row := func(label, value string) {
		fmt.Printf("%s %s\n", LabelStyle.Render(label), ValueStyle.Render(value))
	}
	row("Version", report.Version)
	row("Data directory", report.DataDir)
	row("API endpoint", report.BaseURL)
	if report.KeyConfigured {
		row("API key", SuccessStyle.Render("configured")+" "+DimStyle.Render(report.KeyFingerprint))
	} else {
		row("API key", WarningStyle.Render("not configured"))
	}
	row("Active persona", report.ActivePersona)
	row("Personas", fmt.Sprintf("%d", report.Personas))
	row("Conversations", fmt.Sprintf("%d", report.Conversations))
	row("Artifacts", fmt.Sprintf("%d (%d indexed)", report.Artifacts, report.IndexedCount))
	row("Theme", report.Theme)
	return nil
}
