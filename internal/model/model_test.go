// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short input kept", "Explain goroutines", "Explain goroutines"},
		{"newlines collapsed", "fix this\nplease", "fix this please"},
		{"whitespace trimmed", "  hello  ", "hello"},
		{"long input cut at 50 runes", strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveTitleMultibyte(t *testing.T) {
	input := strings.Repeat("日", 60)
	got := DeriveTitle(input)
	if len([]rune(got)) != 50 {
		t.Errorf("expected 50 runes, got %d", len([]rune(got)))
	}
	if !strings.HasPrefix(input, got) {
		t.Error("truncation corrupted multi-byte text")
	}
}

func TestConversationAppendOrdering(t *testing.T) {
	conv := NewConversation(DefaultPersonaID, "t")
	first := NewUserMessage("one")
	second := NewAssistantMessage("two", DefaultPersonaID, nil)
	conv.Append(first)
	conv.Append(second)

	if conv.MessageCount() != 2 {
		t.Fatalf("expected 2 messages, got %d", conv.MessageCount())
	}
	if conv.Messages[0].ID != first.ID || conv.Messages[1].ID != second.ID {
		t.Error("messages not in append order")
	}
	if conv.LastMessage().ID != second.ID {
		t.Error("LastMessage should return most recent append")
	}
}

func TestNewConversationDefaults(t *testing.T) {
	conv := NewConversation("p1", "")
	if conv.Title != "New Conversation" {
		t.Errorf("empty title should default, got %q", conv.Title)
	}
	if conv.PersonaID != "p1" {
		t.Errorf("persona not recorded: %q", conv.PersonaID)
	}
	if !conv.IsEmpty() {
		t.Error("new conversation should be empty")
	}
}

func TestDefaultPersona(t *testing.T) {
	p := DefaultPersona()
	if p.ID != DefaultPersonaID {
		t.Errorf("default persona ID = %q", p.ID)
	}
	if !p.IsDefault() {
		t.Error("IsDefault should be true")
	}
	if p.Temperature != DefaultTemperature {
		t.Errorf("temperature = %v", p.Temperature)
	}
	if p.Model != FreeModels[0].ID {
		t.Errorf("model = %q", p.Model)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(nil); got != "Unknown persona" {
		t.Errorf("nil persona display = %q", got)
	}
	if got := DisplayName(&Persona{Name: "Nova"}); got != "Nova" {
		t.Errorf("display = %q", got)
	}
}

func TestArtifactDraftPromote(t *testing.T) {
	draft := ArtifactDraft{
		Title:          "Go Snippet 1",
		Type:           ArtifactCode,
		Content:        "package main",
		Language:       "go",
		PersonaID:      "default",
		ConversationID: "c1",
	}
	a := draft.Promote()
	b := draft.Promote()

	if a.ID == "" || b.ID == "" {
		t.Fatal("promoted artifacts must have IDs")
	}
	if a.ID == b.ID {
		t.Error("artifact IDs must be globally unique")
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("promoted artifacts must have timestamps")
	}
	if a.Title != draft.Title || a.Type != draft.Type || a.Language != draft.Language {
		t.Error("promotion must carry draft fields verbatim")
	}
}

func TestResolveGeneration(t *testing.T) {
	settings := Settings{SelectedModel: "global/model"}

	tests := []struct {
		name    string
		persona *Persona
		want    GenerationOptions
	}{
		{
			"nil persona falls back to settings and defaults",
			nil,
			GenerationOptions{Model: "global/model", Temperature: DefaultTemperature},
		},
		{
			"persona overrides everything",
			&Persona{Model: "p/model", SystemPrompt: "be terse", Temperature: 0.2},
			GenerationOptions{Model: "p/model", SystemPrompt: "be terse", Temperature: 0.2},
		},
		{
			"persona with empty fields falls through per field",
			&Persona{SystemPrompt: "be terse"},
			GenerationOptions{Model: "global/model", SystemPrompt: "be terse", Temperature: DefaultTemperature},
		},
		{
			"zero temperature falls back to default",
			&Persona{Model: "p/model"},
			GenerationOptions{Model: "p/model", Temperature: DefaultTemperature},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveGeneration(tt.persona, settings); got != tt.want {
				t.Errorf("ResolveGeneration = %+v, want %+v", got, tt.want)
			}
		})
	}
}
