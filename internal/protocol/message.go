package protocol

import "encoding/json"

// Message is the JSON envelope exchanged over a session connection.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType tags a message.
type MessageType string

// Client → server message types.
const (
	// Room membership
	MsgCreateRoom MessageType = "create_room" // create a room, become its host
	MsgJoinRoom   MessageType = "join_room"   // join (or rebind to) a room by code
	MsgLeaveRoom  MessageType = "leave_room"  // leave the current room explicitly

	// Waiting-room setup
	MsgUpdateCharacter MessageType = "update_character" // submit a character sheet, marks ready
	MsgRestoreRoom     MessageType = "restore_room"     // host replays a saved snapshot into the room
	MsgStartGame       MessageType = "start_game"       // host starts the session

	// In-session
	MsgSendAction MessageType = "send_action" // player narrative action
	MsgGMResponse MessageType = "gm_response" // narrator reply relayed by the host
	MsgNextTurn   MessageType = "next_turn"   // advance the turn pointer
)

// Server → client message types.
const (
	// Connection
	MsgConnected MessageType = "connected" // connection id assignment

	// Room membership
	MsgRoomCreated   MessageType = "room_created"   // room code + initial member list
	MsgPlayerJoined  MessageType = "player_joined"  // member list after a join
	MsgPlayerUpdated MessageType = "player_updated" // member list after a character update or restore
	MsgPlayerLeft    MessageType = "player_left"    // member list after a leave, carries new host

	// Session flow
	MsgSyncHistory MessageType = "sync_history" // chat transcript replay
	MsgGameStarted MessageType = "game_started" // session entered playing state
	MsgTurnChanged MessageType = "turn_changed" // new turn index
	MsgNewMessage  MessageType = "new_message"  // chat relay (player action or GM reply)

	// Errors
	MsgError MessageType = "error"
)
