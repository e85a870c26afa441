// persona - A terminal interface for persona-based AI chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/persona-tui/internal/cli"
	"github.com/jeranaias/persona-tui/internal/config"
	"github.com/jeranaias/persona-tui/internal/ui/chat"
	"github.com/jeranaias/persona-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdSetup:
		err = cli.HandleSetup(args)
	case cli.CmdValidate:
		err = cli.HandleValidate(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdSession:
		err = cli.HandleSession(args)
	case cli.CmdArtifact:
		err = cli.HandleArtifact(args)
	case cli.CmdPersona:
		err = cli.HandlePersona(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the full application and runs the Bubble Tea program.
func runTUI(args cli.Args) error {
	app, err := cli.NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.ApplyPersonaFlag(args); err != nil {
		return err
	}
	app.ApplyModelFlag(args)

	// The search index is rebuilt from the state file on startup so a
	// deleted or stale database heals itself.
	if app.Index != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = app.Index.Rebuild(ctx, app.Store.Artifacts())
		cancel()
	}

	theme := styles.NewTheme(app.Store.Settings().Theme)

	runner := chat.NewRunner(app.Orchestrator)
	m := chat.New(app.Store, runner, theme)
	m.ShowTimestamps = app.Config.UI.ShowTimestamps

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	runner.SetProgram(p)

	// Config edits apply on the next turn without a restart.
	watcher := startConfigWatcher(app)
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// startConfigWatcher reloads cloud settings when the config file
// changes. Returns nil when watching is unavailable.
func startConfigWatcher(app *cli.App) *config.Watcher {
	path, err := config.ConfigPath()
	if err != nil {
		return nil
	}
	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
		app.Config.Cloud = cfg.Cloud
		app.Config.UI = cfg.UI
		if key := cfg.Cloud.OpenRouterKey; key != "" {
			app.Client.SetAPIKey(key)
		}
	})
	if err != nil {
		return nil
	}
	if err := watcher.Watch(); err != nil {
		watcher.Close()
		return nil
	}
	return watcher
}
