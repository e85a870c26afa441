// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPersonaID is the reserved identifier of the built-in persona.
// The default persona always exists and can never be deleted.
const DefaultPersonaID = "default"

// =============================================================================
// PERSONA TYPE
// =============================================================================

// Persona is a named configuration bundle that parameterizes how completion
// requests are built: system prompt, model, temperature, and styling.
type Persona struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Description  string    `json:"description"`
	SystemPrompt string    `json:"system_prompt"`
	Temperature  float64   `json:"temperature"` // 0.0 - 1.0
	Model        string    `json:"model"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPersona creates a persona with a generated ID and timestamps.
func NewPersona(name string) *Persona {
	now := time.Now()
	return &Persona{
		ID:          uuid.NewString(),
		Name:        name,
		Temperature: DefaultTemperature,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DefaultPersona returns the built-in persona seeded on first run.
func DefaultPersona() *Persona {
	now := time.Now()
	return &Persona{
		ID:          DefaultPersonaID,
		Name:        "Nova",
		Avatar:      "*",
		Description: "A helpful AI assistant ready to help with any task",
		SystemPrompt: "You are Nova, a helpful, creative, and knowledgeable AI assistant. " +
			"You can help with coding, writing, analysis, and creative tasks. " +
			"When creating content that could be an artifact (code, documents, diagrams), " +
			"wrap them appropriately.",
		Temperature: DefaultTemperature,
		Model:       FreeModels[0].ID,
		Color:       "#6366f1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDefault reports whether this is the reserved default persona.
func (p *Persona) IsDefault() bool {
	return p.ID == DefaultPersonaID
}

// DisplayName returns a human-readable name for a persona that may be nil
// (e.g. a conversation whose persona was deleted).
func DisplayName(p *Persona) string {
	if p == nil {
		return "Unknown persona"
	}
	return p.Name
}
