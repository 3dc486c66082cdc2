// Package ui is the terminal client: a Bubble Tea program that drives
// the room lifecycle from the keyboard and renders what the server
// broadcasts.
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campfire-trpg/campfire/internal/client"
	"github.com/campfire-trpg/campfire/internal/protocol"
)

// Phase is the screen the client is on.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseHome            // choose create or join
	PhaseNameEntry       // type a display name
	PhaseCodeEntry       // type a room code to join
	PhaseWaiting         // in the room, before the session starts
	PhasePlaying         // session running
)

// ServerMessage wraps a decoded server message for the tea loop.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg reports a successful dial.
type ConnectedMsg struct{}

// ConnectionErrorMsg reports a failed dial or a dropped connection.
type ConnectionErrorMsg struct {
	Err error
}

type chatLine struct {
	Sender  string
	Content string
	Kind    string // protocol.SpeakerUser or protocol.SpeakerAssistant
}

// Model is the top-level tea model.
type Model struct {
	client *client.Client
	phase  Phase

	// identity
	playerName string
	joining    bool // home menu choice: join instead of create

	// room state, mirrored from server broadcasts
	roomCode  string
	players   []protocol.PlayerInfo
	hostID    string
	turnIndex int
	chat      []chatLine

	input    textinput.Model
	errorMsg string
	statusMsg string
	width    int
	height   int
}

// NewModel creates the client model for the given server URL.
func NewModel(serverURL string) *Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()

	return &Model{
		client: client.NewClient(serverURL),
		phase:  PhaseConnecting,
		input:  ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connect(), textinput.Blink)
}

func (m *Model) connect() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// isHost reports whether this connection currently holds host authority.
func (m *Model) isHost() bool {
	return m.client.ConnID != "" && m.client.ConnID == m.hostID
}

// myTurn reports whether the turn pointer is on this player.
func (m *Model) myTurn() bool {
	if m.turnIndex < 0 || m.turnIndex >= len(m.players) {
		return false
	}
	return m.players[m.turnIndex].ConnID == m.client.ConnID
}
