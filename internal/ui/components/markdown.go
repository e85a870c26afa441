// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps a glamour renderer with width awareness and a
// plain-text fallback. Renderers are not safe for concurrent use; the
// Bubble Tea loop is single-threaded so this is fine for views.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapped at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &MarkdownRenderer{renderer: r, width: width}
}

// Resize rebuilds the renderer for a new wrap width. No-op if the
// width is unchanged.
func (m *MarkdownRenderer) Resize(width int) {
	if width == m.width || width < 20 {
		return
	}
	next := NewMarkdownRenderer(width)
	m.renderer = next.renderer
	m.width = width
}

// Render renders markdown for terminal display. Falls back to the raw
// text when glamour is unavailable or errors.
func (m *MarkdownRenderer) Render(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
