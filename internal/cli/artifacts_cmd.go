// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// artifacts_cmd.go - Artifact management commands for persona.
//
// Command: artifact
// Aliases: artifacts
//
// Subcommands:
//   list                 List extracted artifacts
//   search <text>        Full-text search (SQLite index)
//   show <id>            Print artifact content to stdout
//   delete <id>          Delete an artifact (requires --confirm)
//   rebuild              Rebuild the search index from the state file
package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/util"
)

const defaultSearchLimit = 20

// HandleArtifact dispatches the artifact subcommands.
func HandleArtifact(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	switch args.Subcommand {
	case "", "list":
		return artifactList(app)
	case "search":
		return artifactSearch(app, args)
	case "show":
		return artifactShow(app, args)
	case "delete":
		return artifactDelete(app, args)
	case "rebuild":
		return artifactRebuild(app)
	default:
		return fmt.Errorf("unknown artifact subcommand: %s", args.Subcommand)
	}
}

func artifactList(app *App) error {
	artifacts := app.Store.Artifacts()
	if len(artifacts) == 0 {
		fmt.Println(DimStyle.Render("No artifacts yet. They are extracted from fenced code blocks in replies."))
		return nil
	}

	sorted := make([]*model.Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Artifacts (%d)", len(sorted))))
	for _, a := range sorted {
		printArtifactRow(a)
	}
	return nil
}

func artifactSearch(app *App, args Args) error {
	if app.Index == nil {
		return fmt.Errorf("search index unavailable")
	}
	if len(args.Raw) == 0 {
		return fmt.Errorf("search text required")
	}
	query := strings.Join(args.Raw, " ")

	limit := defaultSearchLimit
	if v := args.Options["limit"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout())
	defer cancel()

	matches, err := app.Index.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println(DimStyle.Render("No matches."))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Matches for %q (%d)", query, len(matches))))
	for _, m := range matches {
		printArtifactRow(&m.Artifact)
	}
	return nil
}

// resolveArtifact finds an artifact by full id or unique-enough prefix.
func resolveArtifact(app *App, args Args) (*model.Artifact, error) {
	if len(args.Raw) == 0 {
		return nil, fmt.Errorf("artifact id required")
	}
	ref := args.Raw[0]

	if a, ok := app.Store.Artifact(ref); ok {
		return a, nil
	}
	for _, candidate := range app.Store.Artifacts() {
		if strings.HasPrefix(candidate.ID, ref) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no artifact matches %q", ref)
}

func artifactShow(app *App, args Args) error {
	a, err := resolveArtifact(app, args)
	if err != nil {
		return err
	}

	// Raw content to stdout so it can be piped into a file or tool.
	fmt.Println(a.Content)
	return nil
}

func artifactDelete(app *App, args Args) error {
	a, err := resolveArtifact(app, args)
	if err != nil {
		return err
	}

	if args.Options["confirm"] != "true" {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Deletion is permanent. Re-run with --confirm."))
		return nil
	}

	if err := app.Store.DeleteArtifact(a.ID); err != nil {
		return err
	}
	if app.Index != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout())
		defer cancel()
		if err := app.Index.Remove(ctx, a.ID); err != nil {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Search index out of date; run 'persona artifact rebuild'."))
		}
	}
	fmt.Println(SuccessStyle.Render("Deleted ") + ValueStyle.Render(a.Title))
	return nil
}

func artifactRebuild(app *App) error {
	if app.Index == nil {
		return fmt.Errorf("search index unavailable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout())
	defer cancel()

	artifacts := app.Store.Artifacts()
	if err := app.Index.Rebuild(ctx, artifacts); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Indexed %d artifacts.", len(artifacts))))
	return nil
}

func printArtifactRow(a *model.Artifact) {
	fmt.Printf("  %s  %s %s\n      %s\n",
		DimStyle.Render(a.ID[:8]),
		ValueStyle.Render(a.Title),
		DimStyle.Render("("+string(a.Type)+", "+a.Language+")"),
		DimStyle.Render(util.TruncateRunes(util.FirstLine(a.Content), 60)))
}
