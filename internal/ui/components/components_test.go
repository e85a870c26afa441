// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/persona-tui/internal/model"
)

func TestHighlightFallsBackOnUnknownLanguage(t *testing.T) {
	code := "some content that is not code"
	out := Highlight(code, "not-a-language")
	if out == "" {
		t.Fatal("expected non-empty output")
	}
}

func TestCodeBlockRenderContainsCode(t *testing.T) {
	cb := NewCodeBlock("go", "package main\n\nfunc main() {}\n")
	out := cb.Render()
	if !strings.Contains(out, "go") {
		t.Error("expected language badge in output")
	}
	if !strings.Contains(out, "main") {
		t.Error("expected code content in output")
	}
}

func TestMarkdownRendererFallback(t *testing.T) {
	r := &MarkdownRenderer{}
	if got := r.Render("plain text"); got != "plain text" {
		t.Errorf("nil renderer should pass through, got %q", got)
	}
}

func TestMarkdownRendererRender(t *testing.T) {
	r := NewMarkdownRenderer(60)
	out := r.Render("# Title\n\nbody text")
	if !strings.Contains(out, "Title") {
		t.Error("expected heading text in rendered output")
	}
}

func TestArtifactCardRender(t *testing.T) {
	a := &model.Artifact{
		ID:        "abc",
		Title:     "Python Snippet 1",
		Type:      model.ArtifactCode,
		Language:  "python",
		Content:   "def greet(name):\n    return f\"hello {name}\"\n",
		CreatedAt: time.Now(),
	}
	card := NewArtifactCard(a)
	out := card.Render()
	if !strings.Contains(out, "Python Snippet 1") {
		t.Error("expected title in card")
	}
	if !strings.Contains(out, "code") {
		t.Error("expected type badge in card")
	}
}

func TestArtifactCardNil(t *testing.T) {
	card := ArtifactCard{}
	if card.Render() != "" {
		t.Error("nil artifact should render nothing")
	}
}
