// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/persona-tui/internal/util"
)

// TitleMaxRunes is the maximum title length derived from the first user
// message of a new conversation.
const TitleMaxRunes = 50

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an append-only message sequence owned by one persona.
// The persona is fixed at creation time; reassignment is not supported.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	PersonaID string     `json:"persona_id"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewConversation creates a conversation owned by a persona. An empty title
// falls back to "New Conversation".
func NewConversation(personaID, title string) *Conversation {
	if title == "" {
		title = "New Conversation"
	}
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		PersonaID: personaID,
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle produces a conversation title from user input: the first
// 50 characters, single-line, rune-safe.
func DeriveTitle(text string) string {
	return util.TruncateRunesNoEllipsis(util.FirstLine(text), TitleMaxRunes)
}

// Append adds a message to the end of the conversation. Messages are
// append-only; there is no in-place edit or single-message delete.
func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns the first user message truncated for list display.
func (c *Conversation) Preview() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			return util.TruncateRunes(util.FirstLine(msg.Content), 80)
		}
	}
	return ""
}
