// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"testing"

	"github.com/jeranaias/persona-tui/internal/config"
	"github.com/jeranaias/persona-tui/internal/index"
	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/store"
)

func newArtifactTestApp(t *testing.T) (*App, *model.Artifact) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(dir, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	idx, err := index.Open(dir)
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	a := model.ArtifactDraft{
		Title:    "Py Snippet 1",
		Type:     model.ArtifactCode,
		Content:  "print('hi')",
		Language: "python",
	}.Promote()
	if err := st.AddArtifacts([]*model.Artifact{a}); err != nil {
		t.Fatalf("AddArtifacts: %v", err)
	}
	if err := idx.Put(context.Background(), a); err != nil {
		t.Fatalf("index.Put: %v", err)
	}

	return &App{Config: config.Default(), Store: st, Index: idx}, a
}

func TestArtifactDelete(t *testing.T) {
	app, a := newArtifactTestApp(t)

	// Accepts an id prefix, like show does.
	err := artifactDelete(app, Args{
		Raw:     []string{a.ID[:8]},
		Options: map[string]string{"confirm": "true"},
	})
	if err != nil {
		t.Fatalf("artifactDelete: %v", err)
	}

	if _, ok := app.Store.Artifact(a.ID); ok {
		t.Error("artifact still in store after delete")
	}
	n, err := app.Index.Count(context.Background())
	if err != nil {
		t.Fatalf("index.Count: %v", err)
	}
	if n != 0 {
		t.Errorf("index holds %d artifacts after delete, want 0", n)
	}
}

func TestArtifactDeleteRequiresConfirm(t *testing.T) {
	app, a := newArtifactTestApp(t)

	err := artifactDelete(app, Args{Raw: []string{a.ID}, Options: map[string]string{}})
	if err != nil {
		t.Fatalf("artifactDelete: %v", err)
	}

	if _, ok := app.Store.Artifact(a.ID); !ok {
		t.Error("artifact deleted without --confirm")
	}
}

func TestArtifactDeleteUnknownID(t *testing.T) {
	app, _ := newArtifactTestApp(t)

	err := artifactDelete(app, Args{Raw: []string{"no-such"}, Options: map[string]string{"confirm": "true"}})
	if err == nil {
		t.Fatal("expected error for unknown artifact id")
	}
}
