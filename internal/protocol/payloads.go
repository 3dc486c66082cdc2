package protocol

import "encoding/json"

// PlayerInfo is the public view of one room member.
// ConnID is empty for a slot whose player is not currently connected
// (restored from a snapshot and waiting for its owner to rejoin).
type PlayerInfo struct {
	ConnID    string          `json:"conn_id,omitempty"`
	Name      string          `json:"name"`
	IsReady   bool            `json:"is_ready"`
	Character json.RawMessage `json:"character,omitempty"`
}

// --- Client request payloads ---

// CreateRoomPayload creates a room.
type CreateRoomPayload struct {
	Name string `json:"name"`
}

// JoinRoomPayload joins a room by code.
type JoinRoomPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UpdateCharacterPayload submits a character sheet.
// The character blob is opaque to the server.
type UpdateCharacterPayload struct {
	Code      string          `json:"code"`
	Character json.RawMessage `json:"character"`
}

// RestoreRoomPayload replays a saved snapshot into a freshly created room.
type RestoreRoomPayload struct {
	Code         string          `json:"code"`
	Players      []RestoredSlot  `json:"players"`
	TurnIndex    int             `json:"turn_index"`
	ChatHTML     string          `json:"chat_html"`
	StartPlaying bool            `json:"start_playing"`
}

// RestoredSlot is one member slot from a snapshot.
type RestoredSlot struct {
	Name      string          `json:"name"`
	Character json.RawMessage `json:"character,omitempty"`
}

// StartGamePayload starts the session.
type StartGamePayload struct {
	Code string `json:"code"`
}

// SendActionPayload is a player's narrative action.
type SendActionPayload struct {
	Code    string `json:"code"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// GMResponsePayload is the narrator's reply, relayed by the host client.
type GMResponsePayload struct {
	Code    string `json:"code"`
	Content string `json:"content"`
}

// NextTurnPayload advances the turn pointer.
type NextTurnPayload struct {
	Code string `json:"code"`
}

// LeaveRoomPayload leaves the current room.
type LeaveRoomPayload struct {
	Code string `json:"code"`
}

// --- Server response payloads ---

// ConnectedPayload assigns the connection its id.
type ConnectedPayload struct {
	ConnID string `json:"conn_id"`
}

// RoomCreatedPayload acknowledges room creation to the host.
type RoomCreatedPayload struct {
	Code    string       `json:"code"`
	Players []PlayerInfo `json:"players"`
}

// RoomStatePayload carries the full member list plus the current host.
// Used for player_joined, player_updated and player_left broadcasts.
type RoomStatePayload struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"host_id"`
}

// SyncHistoryPayload replays the accumulated chat transcript.
type SyncHistoryPayload struct {
	ChatHTML string `json:"chat_html"`
}

// GameStartedPayload announces the playing state.
type GameStartedPayload struct {
	Players   []PlayerInfo `json:"players"`
	TurnIndex int          `json:"turn_index"`
}

// TurnChangedPayload announces the new turn index.
type TurnChangedPayload struct {
	TurnIndex int `json:"turn_index"`
}

// Speaker roles for NewMessagePayload.Type.
const (
	SpeakerUser      = "user"      // player action
	SpeakerAssistant = "assistant" // GM narration
)

// NewMessagePayload relays one chat entry.
type NewMessagePayload struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ErrorPayload reports a recoverable failure to the requester only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
