// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands for persona.
//
// Command: config
//
// Subcommands:
//   show (default)       Print current configuration
//   set <key> <value>    Set a value and save
//   path                 Print the config file path
//
// Settable keys: base_url, theme, data_dir, timeout_secs, encrypt_key
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/persona-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "get":
		return configGet(args)
	case "set":
		return configSet(args)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}

func configShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dataDir, _ := cfg.DataDir()

	fmt.Println(TitleStyle.Render("persona config"))
	row := func(label, value string) {
		fmt.Printf("%s %s\n", LabelStyle.Render(label), ValueStyle.Render(value))
	}
	row("base_url", cfg.Cloud.BaseURL)
	row("timeout_secs", strconv.Itoa(cfg.Cloud.RequestTimeoutSecs))
	row("data_dir", dataDir)
	row("encrypt_key", strconv.FormatBool(cfg.Data.EncryptAPIKey))
	row("theme", cfg.UI.Theme)
	row("show_timestamps", strconv.FormatBool(cfg.UI.ShowTimestamps))

	if cfg.Cloud.OpenRouterKey != "" {
		fmt.Println(DimStyle.Render("API key provided via PERSONA_OPENROUTER_KEY or config file."))
	}
	return nil
}

func configGet(args Args) error {
	if len(args.Raw) < 1 {
		return fmt.Errorf("usage: persona config get <key>")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args.Raw[0] {
	case "base_url":
		fmt.Println(cfg.Cloud.BaseURL)
	case "theme":
		fmt.Println(cfg.UI.Theme)
	case "data_dir":
		dir, err := cfg.DataDir()
		if err != nil {
			return err
		}
		fmt.Println(dir)
	case "timeout_secs":
		fmt.Println(cfg.Cloud.RequestTimeoutSecs)
	case "encrypt_key":
		fmt.Println(cfg.Data.EncryptAPIKey)
	case "show_timestamps":
		fmt.Println(cfg.UI.ShowTimestamps)
	default:
		return fmt.Errorf("unknown config key: %s", args.Raw[0])
	}
	return nil
}

func configSet(args Args) error {
	if len(args.Raw) < 2 {
		return fmt.Errorf("usage: persona config set <key> <value>")
	}
	key, value := args.Raw[0], args.Raw[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "base_url":
		cfg.Cloud.BaseURL = value
	case "theme":
		cfg.UI.Theme = value
	case "data_dir":
		cfg.Data.Dir = value
	case "timeout_secs":
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid timeout: %s", value)
		}
		cfg.Cloud.RequestTimeoutSecs = secs
	case "encrypt_key":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Data.EncryptAPIKey = b
	case "show_timestamps":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.UI.ShowTimestamps = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Saved ") + ValueStyle.Render(key+" = "+value))
	return nil
}
