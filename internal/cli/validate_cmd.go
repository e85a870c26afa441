// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// validate_cmd.go - API key validation command for persona.
//
// Command: validate
//
// Checks the configured key against GET /models. A rejected key is a
// normal outcome, not an error; only transport failures exit non-zero.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/persona-tui/internal/cloud"
)

// HandleValidate validates the configured API key.
func HandleValidate(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout())
	defer cancel()

	result, err := app.Client.ValidateKey(ctx, resolveAPIKey(app.Config, app.Store))
	if err != nil {
		if errors.Is(err, cloud.ErrEmptyKey) {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("No API key configured.")+
				DimStyle.Render(" Run 'persona setup' to add one."))
			return err
		}
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Validation failed: ")+err.Error())
		return err
	}

	if args.JSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if !result.Valid {
		fmt.Println(ErrorStyle.Render("Key rejected: ") + ValueStyle.Render(result.Error))
		return nil
	}

	fmt.Println(SuccessStyle.Render("Key is valid."))
	if len(result.Models) > 0 {
		fmt.Println(SectionStyle.Render(fmt.Sprintf("Available models (%d shown)", len(result.Models))))
		preview := result.Models
		if !args.Verbose && len(preview) > 10 {
			preview = preview[:10]
		}
		for _, m := range preview {
			fmt.Printf("  %s %s\n", ValueStyle.Render(m.ID), DimStyle.Render(m.Name))
		}
		if !args.Verbose && len(result.Models) > 10 {
			fmt.Println(DimStyle.Render(fmt.Sprintf("  ... and %d more (use --verbose)", len(result.Models)-10)))
		}
	}
	return nil
}
