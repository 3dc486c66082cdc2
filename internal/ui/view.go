package ui

import (
	"fmt"
	"strings"

	"github.com/campfire-trpg/campfire/internal/protocol"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔥 Campfire"))
	b.WriteString("\n\n")

	switch m.phase {
	case PhaseConnecting:
		b.WriteString("connecting to server...\n")

	case PhaseHome:
		b.WriteString("  [c] light a new campfire\n")
		b.WriteString("  [j] join one by code\n")
		b.WriteString(dimStyle.Render("\n  esc to quit"))
		b.WriteString("\n")

	case PhaseNameEntry, PhaseCodeEntry:
		b.WriteString(m.input.View())
		b.WriteString(dimStyle.Render("\n\n  enter to confirm, esc to quit"))
		b.WriteString("\n")

	case PhaseWaiting:
		fmt.Fprintf(&b, "room %s\n\n", codeStyle.Render(m.roomCode))
		b.WriteString(m.renderPlayers(false))
		b.WriteString(dimStyle.Render("\n  [r] ready up"))
		if m.isHost() {
			b.WriteString(dimStyle.Render("   [s] start the session"))
		}
		b.WriteString(dimStyle.Render("   esc to leave"))
		b.WriteString("\n")

	case PhasePlaying:
		fmt.Fprintf(&b, "room %s\n\n", codeStyle.Render(m.roomCode))
		b.WriteString(m.renderPlayers(true))
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(m.renderChat()))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		hint := "\n  enter to act, /next to pass the turn"
		if m.isHost() {
			hint += ", /gm <text> to narrate"
		}
		b.WriteString(dimStyle.Render(hint))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg) + "\n")
	}
	if m.errorMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errorMsg) + "\n")
	}

	return docStyle.Render(b.String())
}

func (m *Model) renderPlayers(playing bool) string {
	var b strings.Builder
	for i, p := range m.players {
		marker := "  "
		if playing && i == m.turnIndex {
			marker = turnIcon + " "
		}

		icon := waitIcon
		if p.IsReady {
			icon = readyIcon
		}
		if p.ConnID == m.hostID {
			icon = hostIcon
		}

		name := p.Name
		if p.ConnID == "" {
			name = dimStyle.Render(name + " (away)")
		} else if p.ConnID == m.client.ConnID {
			name += " (you)"
		}

		fmt.Fprintf(&b, "%s%s %s\n", marker, icon, name)
	}
	return b.String()
}

func (m *Model) renderChat() string {
	if len(m.chat) == 0 {
		return dimStyle.Render("the fire crackles...")
	}

	// Show only what fits on a modest terminal.
	lines := m.chat
	if len(lines) > 12 {
		lines = lines[len(lines)-12:]
	}

	var b strings.Builder
	for _, line := range lines {
		text := fmt.Sprintf("%s: %s", line.Sender, line.Content)
		if line.Kind == protocol.SpeakerAssistant {
			text = gmStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
