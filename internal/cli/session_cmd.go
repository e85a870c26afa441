// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - Conversation management commands for persona.
//
// Command: session
// Aliases: sessions
//
// Subcommands:
//   list                 List saved conversations
//   show <id>            Print a transcript
//   export <id>          Export to markdown or JSON
//   delete <id>          Delete a conversation (requires --confirm)
package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/persona-tui/internal/export"
	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/util"
)

// HandleSession dispatches the session subcommands.
func HandleSession(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	switch args.Subcommand {
	case "", "list":
		return sessionList(app, args)
	case "show":
		return sessionShow(app, args)
	case "export":
		return sessionExport(app, args)
	case "delete":
		return sessionDelete(app, args)
	default:
		return fmt.Errorf("unknown session subcommand: %s", args.Subcommand)
	}
}

// resolveConversation finds a conversation by full id or unambiguous
// id prefix.
func resolveConversation(app *App, args Args) (*model.Conversation, error) {
	if len(args.Raw) == 0 {
		return nil, fmt.Errorf("conversation id required")
	}
	ref := args.Raw[0]

	if c, ok := app.Store.Conversation(ref); ok {
		return c, nil
	}

	var matches []*model.Conversation
	for _, c := range app.Store.Conversations() {
		if strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no conversation matches %q", ref)
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
	}
}

func sessionList(app *App, args Args) error {
	conversations := app.Store.Conversations()
	if len(conversations) == 0 {
		fmt.Println(DimStyle.Render("No saved conversations."))
		return nil
	}

	// Newest first
	sorted := make([]*model.Conversation, len(conversations))
	copy(sorted, conversations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Conversations (%d)", len(sorted))))
	for _, c := range sorted {
		persona := "unknown"
		if p, ok := app.Store.Persona(c.PersonaID); ok {
			persona = p.Name
		}
		fmt.Printf("  %s  %s  %s\n",
			DimStyle.Render(c.ID[:8]),
			ValueStyle.Render(util.TruncateRunes(c.Title, 40)),
			DimStyle.Render(fmt.Sprintf("%s · %d messages · %s",
				persona, c.MessageCount(), c.UpdatedAt.Format("2006-01-02 15:04"))))
	}
	return nil
}

func sessionShow(app *App, args Args) error {
	c, err := resolveConversation(app, args)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render(c.Title))
	for _, msg := range c.Messages {
		label := "you"
		style := PromptStyle
		if msg.Role == model.RoleAssistant {
			style = PersonaStyle
			label = "assistant"
			if p, ok := app.Store.Persona(msg.PersonaID); ok {
				label = p.Name
			}
		} else if msg.Role == model.RoleSystem {
			style = DimStyle
			label = "system"
		}
		fmt.Printf("%s %s\n%s\n\n",
			style.Render(label+">"),
			DimStyle.Render(msg.CreatedAt.Format("15:04:05")),
			msg.Content)
	}

	artifacts := conversationArtifacts(app, c.ID)
	if len(artifacts) > 0 {
		fmt.Println(SectionStyle.Render(fmt.Sprintf("Artifacts (%d)", len(artifacts))))
		for _, a := range artifacts {
			fmt.Printf("  %s  %s %s\n",
				DimStyle.Render(a.ID[:8]),
				ValueStyle.Render(a.Title),
				DimStyle.Render("("+string(a.Type)+")"))
		}
	}
	return nil
}

func sessionExport(app *App, args Args) error {
	c, err := resolveConversation(app, args)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	if dir := args.Options["output"]; dir != "" {
		opts.OutputDir = dir
	}

	var exporter export.Exporter
	switch strings.ToLower(args.Options["format"]) {
	case "", "md", "markdown":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter()
	default:
		return fmt.Errorf("unknown export format: %s", args.Options["format"])
	}

	data := &export.Data{
		Conversation: c,
		Artifacts:    conversationArtifacts(app, c.ID),
	}
	if p, ok := app.Store.Persona(c.PersonaID); ok {
		data.Persona = p
	}

	path, err := export.ToFile(data, exporter, opts)
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Exported to ") + ValueStyle.Render(path))
	return nil
}

func sessionDelete(app *App, args Args) error {
	c, err := resolveConversation(app, args)
	if err != nil {
		return err
	}

	if args.Options["confirm"] != "true" {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Deletion is permanent. Re-run with --confirm."))
		return nil
	}

	if err := app.Store.DeleteConversation(c.ID); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Deleted ") + ValueStyle.Render(c.Title))
	return nil
}

// conversationArtifacts returns the stored artifacts belonging to a
// conversation.
func conversationArtifacts(app *App, conversationID string) []*model.Artifact {
	var out []*model.Artifact
	for _, a := range app.Store.Artifacts() {
		if a.ConversationID == conversationID {
			out = append(out, a)
		}
	}
	return out
}
