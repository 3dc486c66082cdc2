package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseHome
		cmds = append(cmds, m.listen())

	case ConnectionErrorMsg:
		m.errorMsg = fmt.Sprintf("connection lost: %v (esc to quit)", msg.Err)

	case ServerMessage:
		m.handleServerMessage(msg.Msg)
		cmds = append(cmds, m.listen())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(key tea.KeyMsg) (bool, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.client.Close()
		return true, tea.Quit

	case "esc":
		switch m.phase {
		case PhaseWaiting, PhasePlaying:
			_ = m.client.LeaveRoom(m.roomCode)
			m.resetRoom()
			m.phase = PhaseHome
			return true, nil
		default:
			m.client.Close()
			return true, tea.Quit
		}
	}

	switch m.phase {
	case PhaseHome:
		switch key.String() {
		case "c":
			m.joining = false
			m.startPrompt(PhaseNameEntry, "your name...")
			return true, nil
		case "j":
			m.joining = true
			m.startPrompt(PhaseNameEntry, "your name...")
			return true, nil
		}

	case PhaseNameEntry:
		if key.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return true, nil
			}
			m.playerName = name
			if m.joining {
				m.startPrompt(PhaseCodeEntry, "room code...")
				return true, nil
			}
			_ = m.client.CreateRoom(name)
			return true, nil
		}

	case PhaseCodeEntry:
		if key.Type == tea.KeyEnter {
			code := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if code == "" {
				return true, nil
			}
			_ = m.client.JoinRoom(code, m.playerName)
			return true, nil
		}

	case PhaseWaiting:
		switch key.String() {
		case "r":
			// A one-line character sheet is enough to signal readiness.
			sheet, _ := json.Marshal(map[string]string{"name": m.playerName})
			_ = m.client.UpdateCharacter(m.roomCode, sheet)
			return true, nil
		case "s":
			if m.isHost() {
				_ = m.client.StartGame(m.roomCode)
			}
			return true, nil
		}

	case PhasePlaying:
		switch key.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return true, nil
			}
			m.input.Reset()
			if rest, ok := strings.CutPrefix(text, "/gm "); ok && m.isHost() {
				_ = m.client.GMResponse(m.roomCode, rest)
				return true, nil
			}
			if text == "/next" {
				_ = m.client.NextTurn(m.roomCode)
				return true, nil
			}
			_ = m.client.SendAction(m.roomCode, m.playerName, text)
			return true, nil
		}
	}

	return false, nil
}

func (m *Model) startPrompt(phase Phase, placeholder string) {
	m.phase = phase
	m.errorMsg = ""
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m *Model) resetRoom() {
	m.roomCode = ""
	m.players = nil
	m.hostID = ""
	m.turnIndex = 0
	m.chat = nil
	m.statusMsg = ""
}

func (m *Model) handleServerMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		payload, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg)
		if err != nil {
			return
		}
		m.roomCode = payload.Code
		m.players = payload.Players
		m.hostID = m.client.ConnID
		m.phase = PhaseWaiting
		m.errorMsg = ""
		m.input.Reset()

	case protocol.MsgPlayerJoined, protocol.MsgPlayerUpdated, protocol.MsgPlayerLeft:
		payload, err := codec.ParsePayload[protocol.RoomStatePayload](msg)
		if err != nil {
			return
		}
		m.players = payload.Players
		m.hostID = payload.HostID
		if m.phase == PhaseCodeEntry || m.phase == PhaseNameEntry {
			// Our own join confirmation
			m.roomCode = strings.ToUpper(strings.TrimSpace(m.input.Value()))
			m.phase = PhaseWaiting
			m.errorMsg = ""
			m.input.Reset()
		}

	case protocol.MsgSyncHistory:
		payload, err := codec.ParsePayload[protocol.SyncHistoryPayload](msg)
		if err != nil {
			return
		}
		if payload.ChatHTML != "" {
			m.statusMsg = "session history restored"
		}

	case protocol.MsgGameStarted:
		payload, err := codec.ParsePayload[protocol.GameStartedPayload](msg)
		if err != nil {
			return
		}
		m.players = payload.Players
		m.turnIndex = payload.TurnIndex
		m.phase = PhasePlaying
		m.input.Reset()
		m.input.Placeholder = "describe your action..."

	case protocol.MsgTurnChanged:
		payload, err := codec.ParsePayload[protocol.TurnChangedPayload](msg)
		if err != nil {
			return
		}
		m.turnIndex = payload.TurnIndex

	case protocol.MsgNewMessage:
		payload, err := codec.ParsePayload[protocol.NewMessagePayload](msg)
		if err != nil {
			return
		}
		m.chat = append(m.chat, chatLine{
			Sender:  payload.Sender,
			Content: payload.Content,
			Kind:    payload.Type,
		})

	case protocol.MsgError:
		payload, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return
		}
		m.errorMsg = payload.Message
	}
}
