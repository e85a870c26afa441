// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Message handling for the chat view.
package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StreamStartMsg:
		if msg.Turn != m.turn {
			return m, nil
		}
		m.streaming = true
		m.partial = ""
		m.refreshTranscript()
		return m, m.spinner.Tick

	case StreamTokenMsg:
		if msg.Turn != m.turn {
			return m, nil
		}
		m.partial = msg.Partial
		m.refreshTranscript()
		return m, nil

	case StreamCompleteMsg:
		if msg.Turn != m.turn {
			return m, nil
		}
		m.streaming = false
		m.partial = ""
		m.cancel = nil
		if msg.Result != nil && len(msg.Result.Artifacts) > 0 {
			m.statusMsg = fmt.Sprintf("%d artifact(s) captured — ctrl+a to view", len(msg.Result.Artifacts))
		}
		m.refreshTranscript()
		return m, nil

	case StreamErrorMsg:
		if msg.Turn != m.turn {
			return m, nil
		}
		m.streaming = false
		m.partial = ""
		m.cancel = nil
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		}
		m.refreshTranscript()
		return m, nil
	}

	return m.updateComponents(msg)
}

// handleKey routes key presses by input mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modePersonaPicker {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		if m.streaming {
			m.cancelStream()
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.streaming {
			m.cancelStream()
		}
		return m, nil

	case "enter":
		m.submit()
		return m, nil

	case "ctrl+n":
		m.st.SetActiveConversationID("")
		m.statusMsg = "New conversation"
		m.refreshTranscript()
		return m, nil

	case "ctrl+a":
		m.showArtifacts = !m.showArtifacts
		m.resize(m.width, m.height)
		return m, nil

	case "ctrl+p":
		m.mode = modePersonaPicker
		m.personaCursor = m.activePersonaIndex()
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.updateComponents(msg)
}

// handlePickerKey drives the persona picker overlay.
func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	personas := m.st.Personas()

	switch msg.String() {
	case "esc", "ctrl+p":
		m.mode = modeChat
		return m, nil

	case "up", "k":
		if m.personaCursor > 0 {
			m.personaCursor--
		}
		return m, nil

	case "down", "j":
		if m.personaCursor < len(personas)-1 {
			m.personaCursor++
		}
		return m, nil

	case "enter":
		if m.personaCursor >= 0 && m.personaCursor < len(personas) {
			p := personas[m.personaCursor]
			if err := m.st.SetActivePersona(p.ID); err == nil {
				m.statusMsg = "Persona: " + p.Name
			}
		}
		m.mode = modeChat
		m.refreshTranscript()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// updateComponents forwards a message to the input and viewport.
func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var inputCmd, vpCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, vpCmd)
}

// activePersonaIndex returns the list index of the active persona.
func (m *Model) activePersonaIndex() int {
	active := m.st.ActivePersona()
	for i, p := range m.st.Personas() {
		if p.ID == active.ID {
			return i
		}
	}
	return 0
}

// resize recomputes component dimensions for a new terminal size.
// Layout: header (3 rows) + viewport + input (3 rows) + status (1 row).
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.ready = true

	const reserved = 7
	vpHeight := height - reserved
	if vpHeight < 1 {
		vpHeight = 1
	}

	// The artifact panel only docks beside the transcript when there is
	// room; on narrow terminals it overlays instead.
	vpWidth := width
	if m.showArtifacts && width >= 100 {
		vpWidth = width - artifactPanelWidth(width)
	}
	if vpWidth < 20 {
		vpWidth = 20
	}

	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.input.Width = width - 6
	m.md.Resize(vpWidth - 4)
	m.refreshTranscript()
}
