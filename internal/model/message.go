// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one terminal record in a conversation. Once created it is
// immutable: a streaming partial is never stored, only final text. Extracted
// artifacts are referenced by ID and resolved lazily against the artifact
// table, so deleting an artifact does not mutate its parent message.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	ArtifactIDs []string  `json:"artifact_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	PersonaID   string    `json:"persona_id,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates a terminal assistant message attributed to a
// persona, referencing the artifacts extracted from its content.
func NewAssistantMessage(content string, personaID string, artifactIDs []string) *Message {
	return &Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		Content:     content,
		ArtifactIDs: artifactIDs,
		CreatedAt:   time.Now(),
		PersonaID:   personaID,
	}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleSystem,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
