// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/ui/styles"
)

// previewLines caps how much artifact content a card shows.
const previewLines = 6

// ArtifactCard renders a compact card for one artifact: title line,
// type badge, and an optional highlighted content preview.
type ArtifactCard struct {
	Artifact    *model.Artifact
	MaxWidth    int
	ShowPreview bool
	Selected    bool
}

// NewArtifactCard creates a card with preview enabled.
func NewArtifactCard(a *model.Artifact) ArtifactCard {
	return ArtifactCard{
		Artifact:    a,
		MaxWidth:    60,
		ShowPreview: true,
	}
}

// Render renders the card.
func (c ArtifactCard) Render() string {
	a := c.Artifact
	if a == nil {
		return ""
	}

	innerWidth := c.MaxWidth - 4
	if innerWidth < 16 {
		innerWidth = 16
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.TextPrimary).
		Render(runewidth.Truncate(a.Title, innerWidth-8, "…"))

	badge := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Background(styles.OverlayDim).
		Padding(0, 1).
		Render(string(a.Type))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)

	meta := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmt.Sprintf("%s · %s", a.Language, a.CreatedAt.Format("Jan 2 15:04")))

	parts := []string{header, meta}
	if c.ShowPreview {
		parts = append(parts, c.preview(innerWidth))
	}

	border := styles.OverlayDim
	if c.Selected {
		border = styles.Cyan
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MaxWidth(c.MaxWidth).
		Render(strings.Join(parts, "\n"))
}

// preview returns the first few highlighted lines of the content.
func (c ArtifactCard) preview(width int) string {
	lines := strings.Split(c.Artifact.Content, "\n")
	truncated := len(lines) > previewLines
	if truncated {
		lines = lines[:previewLines]
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width, "…")
	}

	out := Highlight(strings.Join(lines, "\n"), c.Artifact.Language)
	if truncated {
		out += "\n" + lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(fmt.Sprintf("… %d more lines", len(strings.Split(c.Artifact.Content, "\n"))-previewLines))
	}
	return out
}
