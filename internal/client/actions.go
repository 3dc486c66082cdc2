package client

import (
	"encoding/json"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
)

// One convenience method per request type.

// CreateRoom opens a new room with this player as host.
func (c *Client) CreateRoom(name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Name: name,
	}))
}

// JoinRoom joins a room by code.
func (c *Client) JoinRoom(code, name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		Code: code,
		Name: name,
	}))
}

// LeaveRoom leaves the current room.
func (c *Client) LeaveRoom(code string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgLeaveRoom, protocol.LeaveRoomPayload{
		Code: code,
	}))
}

// UpdateCharacter submits a character sheet, marking this player ready.
func (c *Client) UpdateCharacter(code string, character json.RawMessage) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgUpdateCharacter, protocol.UpdateCharacterPayload{
		Code:      code,
		Character: character,
	}))
}

// RestoreRoom replays a saved session snapshot into the current room.
func (c *Client) RestoreRoom(code string, slots []protocol.RestoredSlot, turnIndex int, chatHTML string, startPlaying bool) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgRestoreRoom, protocol.RestoreRoomPayload{
		Code:         code,
		Players:      slots,
		TurnIndex:    turnIndex,
		ChatHTML:     chatHTML,
		StartPlaying: startPlaying,
	}))
}

// StartGame asks the server to begin the session.
func (c *Client) StartGame(code string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		Code: code,
	}))
}

// SendAction relays a narrative action to the room.
func (c *Client) SendAction(code, sender, content string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgSendAction, protocol.SendActionPayload{
		Code:    code,
		Sender:  sender,
		Content: content,
	}))
}

// GMResponse relays the narrator's reply to the room.
func (c *Client) GMResponse(code, content string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGMResponse, protocol.GMResponsePayload{
		Code:    code,
		Content: content,
	}))
}

// NextTurn passes the turn to the next player.
func (c *Client) NextTurn(code string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgNextTurn, protocol.NextTurnPayload{
		Code: code,
	}))
}
