// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// persona_cmd.go - Persona management commands.
//
// Command: persona
// Aliases: personas
//
// Subcommands:
//   list                 List personas
//   use <id|name>        Set the active persona
//   create <name>        Create a persona (--prompt, --model, --temperature)
//   delete <id|name>     Delete a persona (the default persona is kept)
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/util"
)

// HandlePersona dispatches the persona subcommands.
func HandlePersona(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	switch args.Subcommand {
	case "", "list":
		return personaList(app)
	case "use", "switch":
		return personaUse(app, args)
	case "create", "new":
		return personaCreate(app, args)
	case "delete", "rm":
		return personaDelete(app, args)
	default:
		return fmt.Errorf("unknown persona subcommand: %s", args.Subcommand)
	}
}

// findPersona matches a persona by id, id prefix, or name.
func findPersona(app *App, ref string) (*model.Persona, error) {
	if ref == "" {
		return nil, fmt.Errorf("persona id or name required")
	}
	for _, p := range app.Store.Personas() {
		if p.ID == ref || strings.EqualFold(p.Name, ref) || strings.HasPrefix(p.ID, ref) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown persona: %s", ref)
}

func personaList(app *App) error {
	active := app.Store.ActivePersona()
	fmt.Println(TitleStyle.Render("Personas"))
	for _, p := range app.Store.Personas() {
		marker := "  "
		if p.ID == active.ID {
			marker = SuccessStyle.Render("* ")
		}
		modelName := p.Model
		if modelName == "" {
			modelName = "settings default"
		}
		fmt.Printf("%s%s %s\n      %s\n", marker,
			PersonaStyle.Render(p.Name),
			DimStyle.Render(p.ID),
			DimStyle.Render(fmt.Sprintf("%s · temp %.1f · %s",
				modelName, p.Temperature,
				util.TruncateRunes(p.Description, 50))))
	}
	return nil
}

func personaUse(app *App, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("persona id or name required")
	}
	p, err := findPersona(app, strings.Join(args.Raw, " "))
	if err != nil {
		return err
	}
	if err := app.Store.SetActivePersona(p.ID); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Active persona: ") + PersonaStyle.Render(p.Name))
	return nil
}

func personaCreate(app *App, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("persona name required")
	}
	name := strings.Join(args.Raw, " ")

	p := model.NewPersona(name)
	p.SystemPrompt = args.Options["prompt"]
	p.Description = args.Options["description"]
	p.Model = args.Options["model"]
	if v := args.Options["temperature"]; v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || t > 2 {
			return fmt.Errorf("invalid temperature: %s", v)
		}
		p.Temperature = t
	}

	if err := app.Store.AddPersona(p); err != nil {
		return err
	}
	fmt.Printf("%s %s %s\n",
		SuccessStyle.Render("Created"),
		PersonaStyle.Render(p.Name),
		DimStyle.Render(p.ID))
	return nil
}

func personaDelete(app *App, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("persona id or name required")
	}
	p, err := findPersona(app, strings.Join(args.Raw, " "))
	if err != nil {
		return err
	}
	if p.IsDefault() {
		fmt.Println(WarningStyle.Render("The default persona cannot be deleted."))
		return nil
	}
	if err := app.Store.DeletePersona(p.ID); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Deleted ") + PersonaStyle.Render(p.Name))
	return nil
}
