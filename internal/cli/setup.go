// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard for persona.
//
// Command: setup
// Aliases: init
//
// The wizard walks through:
//   1. OpenRouter API key entry (masked, never echoed)
//   2. Key validation against the live API
//   3. Default model selection
//   4. Theme choice
//
// The key is stored encrypted at rest; see the security package.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/persona-tui/internal/config"
	"github.com/jeranaias/persona-tui/internal/model"
)

// HandleSetup runs the interactive first-run wizard.
func HandleSetup(args Args) error {
	if err := RequiresTTY("run setup"); err != nil {
		return err
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println(TitleStyle.Render("persona setup"))
	fmt.Println(ValueStyle.Render("Get a free API key at https://openrouter.ai/keys"))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// 1. API key (masked input; the key never appears on screen)
	key, err := readAPIKey(app)
	if err != nil {
		return err
	}

	// 2. Validate against the live API unless the user skipped entry
	if key != "" {
		if err := validateAndStore(context.Background(), app, key); err != nil {
			return err
		}
	}

	// 3. Default model
	if err := chooseModel(app, reader); err != nil {
		return err
	}

	// 4. Theme
	if err := chooseTheme(app, reader); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Setup complete.") +
		DimStyle.Render(" Run 'persona' to start chatting."))
	return nil
}

// readAPIKey prompts for the key with terminal echo disabled.
// SECURITY: ReadPassword keeps the key out of the terminal scrollback.
func readAPIKey(app *App) (string, error) {
	current := app.Store.APIKey()
	if current != "" {
		fmt.Printf("%s %s\n",
			LabelStyle.Render("Current key:"),
			ValueStyle.Render(app.Client.KeyFingerprint()+" (fingerprint)"))
		fmt.Print(ValueStyle.Render("Enter a new key, or press Enter to keep it: "))
	} else {
		fmt.Print(ValueStyle.Render("OpenRouter API key (input hidden): "))
	}

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// validateAndStore checks the key against GET /models and persists it
// encrypted when valid. An invalid key is stored anyway if the user
// insists, since OpenRouter keys can be provisioned before activation.
func validateAndStore(ctx context.Context, app *App, key string) error {
	fmt.Print(DimStyle.Render("Validating key... "))

	result, err := app.Client.ValidateKey(ctx, key)
	switch {
	case err != nil:
		fmt.Println(WarningStyle.Render("could not reach OpenRouter"))
		fmt.Println(DimStyle.Render("  " + err.Error()))
	case result.Valid:
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("valid (%d models available)", len(result.Models))))
	default:
		fmt.Println(ErrorStyle.Render(result.Error))
	}

	if err := app.Store.SetAPIKey(key); err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	app.Client.SetAPIKey(key)
	fmt.Println(DimStyle.Render("Key saved (encrypted at rest)."))
	return nil
}

// chooseModel lets the user pick a default model from the free tier.
func chooseModel(app *App, reader *bufio.Reader) error {
	fmt.Println()
	fmt.Println(SectionStyle.Render("Default model"))
	for i, m := range model.FreeModels {
		fmt.Printf("  %d. %s %s\n", i+1,
			ValueStyle.Render(m.Name),
			DimStyle.Render(m.ID))
	}
	fmt.Printf(ValueStyle.Render("Choice [1-%d, Enter for 1]: "), len(model.FreeModels))

	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	choice := 1
	if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && n >= 1 && n <= len(model.FreeModels) {
		choice = n
	}

	return app.Store.UpdateSettings(func(s *model.Settings) {
		s.SelectedModel = model.FreeModels[choice-1].ID
	})
}

// chooseTheme asks for dark or light and saves it to both the state
// file and the config file so the TUI and CLI agree.
func chooseTheme(app *App, reader *bufio.Reader) error {
	fmt.Println()
	fmt.Print(ValueStyle.Render("Theme [dark/light, Enter for dark]: "))

	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	theme := strings.ToLower(strings.TrimSpace(line))
	if theme != "light" {
		theme = "dark"
	}

	if err := app.Store.UpdateSettings(func(s *model.Settings) {
		s.Theme = theme
	}); err != nil {
		return err
	}

	app.Config.UI.Theme = theme
	return config.Save(app.Config)
}
