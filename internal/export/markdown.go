// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/persona-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a conversation to Markdown format.
func (e *MarkdownExporter) Export(data *Data) ([]byte, error) {
	if data == nil || data.Conversation == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	conv := data.Conversation
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", conv.Title))

	sb.WriteString(fmt.Sprintf("- **Persona**: %s\n", model.DisplayName(data.Persona)))
	sb.WriteString(fmt.Sprintf("- **Created**: %s\n", conv.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(conv.Messages)))
	if len(data.Artifacts) > 0 {
		sb.WriteString(fmt.Sprintf("- **Artifacts**: %d\n", len(data.Artifacts)))
	}
	sb.WriteString("\n---\n\n")

	for _, msg := range conv.Messages {
		label := e.roleLabel(msg, data.Persona)
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, msg.CreatedAt.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	if len(data.Artifacts) > 0 {
		sb.WriteString("---\n\n## Artifacts\n\n")
		for _, a := range data.Artifacts {
			sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", a.Title, a.Type))
			sb.WriteString("```")
			sb.WriteString(a.Language)
			sb.WriteString("\n")
			sb.WriteString(a.Content)
			sb.WriteString("\n```\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// roleLabel renders a message's speaker.
func (e *MarkdownExporter) roleLabel(msg *model.Message, persona *model.Persona) string {
	switch msg.Role {
	case model.RoleUser:
		return "You"
	case model.RoleAssistant:
		return model.DisplayName(persona)
	default:
		return "System"
	}
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}
