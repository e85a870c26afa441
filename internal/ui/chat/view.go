// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the chat view.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/ui/components"
	"github.com/jeranaias/persona-tui/internal/ui/styles"
)

// artifactPanelWidth returns the docked panel width for a terminal width.
func artifactPanelWidth(total int) int {
	w := total / 3
	if w < 30 {
		w = 30
	}
	if w > 50 {
		w = 50
	}
	return w
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.mode == modePersonaPicker {
		return m.viewPersonaPicker()
	}

	body := m.viewport.View()
	if m.showArtifacts {
		panel := m.viewArtifactPanel()
		if m.width >= 100 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
		} else {
			body = panel
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewInput(),
		m.viewStatusBar(),
	)
}

// viewHeader renders the persona banner.
func (m *Model) viewHeader() string {
	persona := m.st.ActivePersona()

	name := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.PersonaColor(persona.Color)).
		Render(persona.Avatar + " " + persona.Name)

	modelID := persona.Model
	if modelID == "" {
		modelID = m.st.Settings().SelectedModel
	}

	title := ""
	if c := m.activeConversation(); c != nil {
		title = m.theme.HeaderSubtitle.Render("  " + c.Title)
	}

	line := name + "  " + m.theme.ArtifactMeta.Render(modelID) + title
	return m.theme.Header.Width(m.width - 2).Render(line)
}

// refreshTranscript re-renders the conversation into the viewport and
// follows the tail.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// renderTranscript renders every message plus the in-flight reply.
func (m *Model) renderTranscript() string {
	c := m.activeConversation()
	persona := m.st.ActivePersona()
	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var blocks []string
	if c == nil || len(c.Messages) == 0 {
		blocks = append(blocks, m.theme.PersonaPrompt.Render(
			fmt.Sprintf("Start a conversation with %s. Enter sends, ctrl+p switches persona.", persona.Name)))
	} else {
		for _, msg := range c.Messages {
			blocks = append(blocks, m.renderMessage(msg, bubbleWidth))
		}
	}

	if m.streaming {
		text := m.partial
		if text == "" {
			text = m.spinner.View() + m.theme.ThinkingText.Render(" thinking...")
		} else {
			text = m.md.Render(text)
		}
		blocks = append(blocks, m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(text))
	}

	if m.errText != "" {
		blocks = append(blocks, m.theme.ErrorBox.Render(
			m.theme.ErrorTitle.Render("stream error: ")+m.errText))
	}

	return strings.Join(blocks, "\n\n")
}

// renderMessage renders a single persisted message.
func (m *Model) renderMessage(msg *model.Message, width int) string {
	ts := ""
	if m.ShowTimestamps {
		ts = m.theme.Timestamp.Render(msg.CreatedAt.Format("15:04") + " ")
	}

	switch msg.Role {
	case model.RoleUser:
		return lipgloss.NewStyle().Width(m.viewport.Width).Align(lipgloss.Right).Render(
			ts + m.theme.UserBubble.MaxWidth(width).Render(msg.Content))

	case model.RoleAssistant:
		body := m.md.Render(msg.Content)
		bubble := m.theme.AssistantBubble.MaxWidth(width).Render(body)
		if len(msg.ArtifactIDs) > 0 {
			note := m.theme.ArtifactMeta.Render(
				fmt.Sprintf("  ◆ %d artifact(s)", len(msg.ArtifactIDs)))
			bubble += "\n" + note
		}
		return ts + bubble

	default:
		return m.theme.SystemBubble.MaxWidth(width).Render(msg.Content)
	}
}

// viewArtifactPanel renders the artifact side panel.
func (m *Model) viewArtifactPanel() string {
	width := artifactPanelWidth(m.width)
	artifacts := m.conversationArtifacts()

	var body string
	if len(artifacts) == 0 {
		body = m.theme.ArtifactMeta.Render("No artifacts yet.\nCode blocks over 50 characters\nare captured automatically.")
	} else {
		cards := make([]string, 0, len(artifacts))
		for _, a := range artifacts {
			card := components.NewArtifactCard(a)
			card.MaxWidth = width - 2
			cards = append(cards, card.Render())
		}
		body = strings.Join(cards, "\n")
	}

	title := m.theme.ArtifactTitle.Render(fmt.Sprintf("Artifacts (%d)", len(artifacts)))
	return m.theme.ArtifactPanel.
		Width(width - 2).
		Height(m.viewport.Height).
		Render(title + "\n\n" + body)
}

// viewPersonaPicker renders the persona selection overlay.
func (m *Model) viewPersonaPicker() string {
	personas := m.st.Personas()
	active := m.st.ActivePersona()

	var rows []string
	rows = append(rows, m.theme.HeaderTitle.Render("Switch persona"), "")
	for i, p := range personas {
		label := fmt.Sprintf("%s %s", p.Avatar, p.Name)
		if p.ID == active.ID {
			label += " (active)"
		}
		desc := m.theme.ArtifactMeta.Render("  " + p.Description)
		if i == m.personaCursor {
			rows = append(rows, m.theme.PersonaSelected.Render("▸ "+label)+desc)
		} else {
			rows = append(rows, m.theme.PersonaItem.Render("  "+label)+desc)
		}
	}
	rows = append(rows, "", m.theme.PersonaPrompt.Render("enter: select · esc: cancel"))

	box := m.theme.ArtifactPanel.Padding(1, 2).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// viewInput renders the input line.
func (m *Model) viewInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// viewStatusBar renders the bottom status line.
func (m *Model) viewStatusBar() string {
	left := ""
	switch {
	case m.streaming:
		left = m.theme.Notice.Render(m.spinner.View() + " streaming (esc cancels)")
	case m.statusMsg != "":
		left = m.statusMsg
	default:
		left = m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send  ") +
			m.theme.ShortcutKey.Render("ctrl+p") + m.theme.ShortcutDesc.Render(" persona  ") +
			m.theme.ShortcutKey.Render("ctrl+a") + m.theme.ShortcutDesc.Render(" artifacts  ") +
			m.theme.ShortcutKey.Render("ctrl+n") + m.theme.ShortcutDesc.Render(" new  ") +
			m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit")
	}
	return m.theme.StatusBar.Width(m.width).Render(left)
}
