package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campfire-trpg/campfire/internal/config"
	"github.com/campfire-trpg/campfire/internal/game/room"
	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
	"github.com/campfire-trpg/campfire/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.MockServer) {
	t.Helper()
	srv := new(testutil.MockServer)
	srv.On("IsMaintenanceMode").Return(false).Maybe()

	cfg := config.Default()
	h := NewHandler(Deps{
		Server: srv,
		Rooms:  room.NewManager(&cfg.Room),
	})
	return h, srv
}

// createRoom drives the create path and returns the room code.
func createRoom(t *testing.T, h *Handler, c *testutil.SimpleClient, name string) string {
	t.Helper()
	h.Handle(c, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{Name: name}))

	last := c.LastSent()
	require.NotNil(t, last)
	require.Equal(t, protocol.MsgRoomCreated, last.Type)

	created, err := codec.ParsePayload[protocol.RoomCreatedPayload](last)
	require.NoError(t, err)
	c.Reset()
	return created.Code
}

func joinRoom(t *testing.T, h *Handler, c *testutil.SimpleClient, code, name string) {
	t.Helper()
	h.Handle(c, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{Code: code, Name: name}))
}

func lastPayload[T any](t *testing.T, c *testutil.SimpleClient) *T {
	t.Helper()
	last := c.LastSent()
	require.NotNil(t, last)
	payload, err := codec.ParsePayload[T](last)
	require.NoError(t, err)
	return payload
}

func TestHandleCreateRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "")
	h.Handle(alice, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{Name: "Alice"}))

	last := alice.LastSent()
	require.NotNil(t, last)
	require.Equal(t, protocol.MsgRoomCreated, last.Type)

	created, err := codec.ParsePayload[protocol.RoomCreatedPayload](last)
	require.NoError(t, err)
	assert.Len(t, created.Code, 6)
	require.Len(t, created.Players, 1)
	assert.Equal(t, "c1", created.Players[0].ConnID)
	assert.Equal(t, "Alice", created.Players[0].Name)
	assert.True(t, created.Players[0].IsReady, "creator must not block the start")
	assert.Equal(t, created.Code, alice.GetRoom())
	assert.Equal(t, "Alice", alice.GetName())
}

func TestHandleCreateRoom_DefaultName(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	c := testutil.NewSimpleClient("c1", "")
	h.Handle(c, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{}))

	created := lastPayload[protocol.RoomCreatedPayload](t, c)
	assert.Equal(t, "Unknown", created.Players[0].Name)
}

func TestHandleCreateRoom_LeavesPreviousRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	alice.Reset()
	bob.Reset()

	second := createRoom(t, h, alice, "Alice")
	assert.NotEqual(t, code, second)
	assert.Equal(t, second, alice.GetRoom())

	// Bob stayed behind and inherited the old room.
	left := lastPayload[protocol.RoomStatePayload](t, bob)
	assert.Equal(t, "c2", left.HostID)
	require.Len(t, left.Players, 1)
}

func TestHandleCreateRoom_Maintenance(t *testing.T) {
	t.Parallel()
	srv := new(testutil.MockServer)
	srv.On("IsMaintenanceMode").Return(true)

	cfg := config.Default()
	h := NewHandler(Deps{Server: srv, Rooms: room.NewManager(&cfg.Room)})

	c := testutil.NewSimpleClient("c1", "Alice")
	h.Handle(c, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{Name: "Alice"}))

	require.Equal(t, []protocol.MessageType{protocol.MsgError}, c.SentTypes())
	errPayload := lastPayload[protocol.ErrorPayload](t, c)
	assert.Equal(t, protocol.ErrCodeMaintenance, errPayload.Code)
}

func TestHandleJoinRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")

	bob := testutil.NewSimpleClient("c2", "Bob")
	joinRoom(t, h, bob, code, "Bob")

	// Everyone in the room sees the new member list.
	require.Equal(t, []protocol.MessageType{protocol.MsgPlayerJoined}, alice.SentTypes())
	require.Equal(t, []protocol.MessageType{protocol.MsgPlayerJoined, protocol.MsgSyncHistory}, bob.SentTypes())

	state, err := codec.ParsePayload[protocol.RoomStatePayload](alice.LastSent())
	require.NoError(t, err)
	assert.Equal(t, "c1", state.HostID)
	require.Len(t, state.Players, 2)
	assert.Equal(t, "Bob", state.Players[1].Name)
	assert.False(t, state.Players[1].IsReady)
	assert.Equal(t, code, bob.GetRoom())
}

func TestHandleJoinRoom_LowercaseCode(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")

	bob := testutil.NewSimpleClient("c2", "Bob")
	joinRoom(t, h, bob, strings.ToLower(code), "Bob")

	assert.Contains(t, bob.SentTypes(), protocol.MsgPlayerJoined)
	assert.Equal(t, code, bob.GetRoom())
}

func TestHandleJoinRoom_NotFound(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	c := testutil.NewSimpleClient("c1", "Alice")
	joinRoom(t, h, c, "NOSUCH", "Alice")

	errPayload := lastPayload[protocol.ErrorPayload](t, c)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, errPayload.Code)
}

func TestHandleJoinRoom_Full(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")
	for i := 2; i <= 4; i++ {
		joinRoom(t, h, testutil.NewSimpleClient(fmt.Sprintf("c%d", i), fmt.Sprintf("P%d", i)), code, fmt.Sprintf("P%d", i))
	}
	alice.Reset()

	nate := testutil.NewSimpleClient("c9", "Nate")
	joinRoom(t, h, nate, code, "Nate")

	errPayload := lastPayload[protocol.ErrorPayload](t, nate)
	assert.Equal(t, protocol.ErrCodeRoomFull, errPayload.Code)
	assert.Empty(t, alice.SentTypes(), "rejections must stay between server and requester")
}

func TestHandleJoinRoom_AfterStart(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")
	h.Handle(alice, codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{Code: code}))
	alice.Reset()

	bob := testutil.NewSimpleClient("c2", "Bob")
	joinRoom(t, h, bob, code, "Bob")

	errPayload := lastPayload[protocol.ErrorPayload](t, bob)
	assert.Equal(t, protocol.ErrCodeGameStarted, errPayload.Code)
}

func TestHandleJoinRoom_Duplicate(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")

	joinRoom(t, h, alice, code, "Alice")
	assert.Empty(t, alice.SentTypes(), "duplicate join is a silent no-op")
}

func TestHandleLeaveRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	alice.Reset()
	bob.Reset()

	h.Handle(alice, codec.MustNewMessage(protocol.MsgLeaveRoom, protocol.LeaveRoomPayload{Code: code}))

	assert.Empty(t, alice.SentTypes(), "the leaver gets no farewell")
	require.Equal(t, []protocol.MessageType{protocol.MsgPlayerLeft}, bob.SentTypes())

	state := lastPayload[protocol.RoomStatePayload](t, bob)
	assert.Equal(t, "c2", state.HostID, "host authority transfers to the surviving member")
	require.Len(t, state.Players, 1)
	assert.Equal(t, "", alice.GetRoom())
}

func TestHandleDisconnect_LastMemberDestroysRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")

	h.HandleDisconnect(alice)

	assert.Empty(t, alice.SentTypes())
	assert.Nil(t, h.rooms.GetRoom(code))
}

func TestHandleUpdateCharacter(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	alice.Reset()
	bob.Reset()

	sheet := json.RawMessage(`{"class":"rogue","hp":7}`)
	h.Handle(bob, codec.MustNewMessage(protocol.MsgUpdateCharacter, protocol.UpdateCharacterPayload{
		Code:      code,
		Character: sheet,
	}))

	require.Equal(t, []protocol.MessageType{protocol.MsgPlayerUpdated}, alice.SentTypes())
	state := lastPayload[protocol.RoomStatePayload](t, alice)
	require.Len(t, state.Players, 2)
	assert.True(t, state.Players[1].IsReady)
	assert.JSONEq(t, string(sheet), string(state.Players[1].Character))
}

func TestHandleUpdateCharacter_NonMember(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")
	alice.Reset()

	stranger := testutil.NewSimpleClient("c9", "Mallory")
	h.Handle(stranger, codec.MustNewMessage(protocol.MsgUpdateCharacter, protocol.UpdateCharacterPayload{
		Code:      code,
		Character: json.RawMessage(`{}`),
	}))

	assert.Empty(t, alice.SentTypes())
	assert.Empty(t, stranger.SentTypes())
}

func TestHandleStartGame(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")

	// Unready member blocks the start; only the host hears about it.
	alice.Reset()
	bob.Reset()
	h.Handle(alice, codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{Code: code}))
	errPayload := lastPayload[protocol.ErrorPayload](t, alice)
	assert.Equal(t, protocol.ErrCodeNotAllReady, errPayload.Code)
	assert.Empty(t, bob.SentTypes())

	h.Handle(bob, codec.MustNewMessage(protocol.MsgUpdateCharacter, protocol.UpdateCharacterPayload{
		Code:      code,
		Character: json.RawMessage(`{"class":"bard"}`),
	}))
	alice.Reset()
	bob.Reset()

	h.Handle(alice, codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{Code: code}))

	require.Equal(t, []protocol.MessageType{protocol.MsgGameStarted}, alice.SentTypes())
	require.Equal(t, []protocol.MessageType{protocol.MsgGameStarted}, bob.SentTypes())
	started := lastPayload[protocol.GameStartedPayload](t, bob)
	assert.Equal(t, 0, started.TurnIndex)
	require.Len(t, started.Players, 2)
}

func TestHandleStartGame_NonHost(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	alice.Reset()
	bob.Reset()

	h.Handle(bob, codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{Code: code}))

	assert.Empty(t, alice.SentTypes())
	assert.Empty(t, bob.SentTypes())
}

func TestHandleNextTurn(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	h.Handle(bob, codec.MustNewMessage(protocol.MsgUpdateCharacter, protocol.UpdateCharacterPayload{
		Code: code, Character: json.RawMessage(`{}`),
	}))
	h.Handle(alice, codec.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{Code: code}))
	alice.Reset()
	bob.Reset()

	h.Handle(bob, codec.MustNewMessage(protocol.MsgNextTurn, protocol.NextTurnPayload{Code: code}))

	turn := lastPayload[protocol.TurnChangedPayload](t, alice)
	assert.Equal(t, 1, turn.TurnIndex)

	// Wraps back to the first member.
	h.Handle(alice, codec.MustNewMessage(protocol.MsgNextTurn, protocol.NextTurnPayload{Code: code}))
	turn = lastPayload[protocol.TurnChangedPayload](t, bob)
	assert.Equal(t, 0, turn.TurnIndex)
}

func TestHandleChat(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	alice.Reset()
	bob.Reset()

	h.Handle(bob, codec.MustNewMessage(protocol.MsgSendAction, protocol.SendActionPayload{
		Code:    code,
		Sender:  "Bob",
		Content: "I sneak past the guard.",
	}))

	for _, c := range []*testutil.SimpleClient{alice, bob} {
		chat := lastPayload[protocol.NewMessagePayload](t, c)
		assert.Equal(t, "Bob", chat.Sender)
		assert.Equal(t, "I sneak past the guard.", chat.Content)
		assert.Equal(t, protocol.SpeakerUser, chat.Type)
	}

	alice.Reset()
	bob.Reset()
	h.Handle(alice, codec.MustNewMessage(protocol.MsgGMResponse, protocol.GMResponsePayload{
		Code:    code,
		Content: "The guard turns around...",
	}))

	chat := lastPayload[protocol.NewMessagePayload](t, bob)
	assert.Equal(t, "GM", chat.Sender)
	assert.Equal(t, protocol.SpeakerAssistant, chat.Type)
}

func TestHandleChat_UnknownRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	c := testutil.NewSimpleClient("c1", "Alice")
	h.Handle(c, codec.MustNewMessage(protocol.MsgSendAction, protocol.SendActionPayload{
		Code: "NOSUCH", Sender: "Alice", Content: "hello?",
	}))

	assert.Empty(t, c.SentTypes(), "chat to a dead room is dropped")
}

func TestHandleRestoreRoom(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")
	alice.Reset()

	h.Handle(alice, codec.MustNewMessage(protocol.MsgRestoreRoom, protocol.RestoreRoomPayload{
		Code: code,
		Players: []protocol.RestoredSlot{
			{Name: "Alice", Character: json.RawMessage(`{"class":"wizard"}`)},
			{Name: "Bob", Character: json.RawMessage(`{"class":"rogue"}`)},
		},
		TurnIndex:    1,
		ChatHTML:     "<p>previously...</p>",
		StartPlaying: true,
	}))

	require.Equal(t, []protocol.MessageType{
		protocol.MsgPlayerUpdated,
		protocol.MsgSyncHistory,
		protocol.MsgGameStarted,
	}, alice.SentTypes())

	sent := alice.Sent()
	state, err := codec.ParsePayload[protocol.RoomStatePayload](sent[0])
	require.NoError(t, err)
	require.Len(t, state.Players, 2)
	assert.Equal(t, "c1", state.Players[0].ConnID)
	assert.Empty(t, state.Players[1].ConnID, "absent slots wait for their owners")
	assert.True(t, state.Players[1].IsReady)

	history, err := codec.ParsePayload[protocol.SyncHistoryPayload](sent[1])
	require.NoError(t, err)
	assert.Equal(t, "<p>previously...</p>", history.ChatHTML)

	started, err := codec.ParsePayload[protocol.GameStartedPayload](sent[2])
	require.NoError(t, err)
	assert.Equal(t, 1, started.TurnIndex)

	// Bob rejoins by name and lands in his old seat mid-session.
	bob := testutil.NewSimpleClient("c2", "Bob")
	joinRoom(t, h, bob, code, "Bob")

	require.Equal(t, []protocol.MessageType{protocol.MsgPlayerJoined, protocol.MsgSyncHistory}, bob.SentTypes())
	state2, err := codec.ParsePayload[protocol.RoomStatePayload](bob.Sent()[0])
	require.NoError(t, err)
	assert.Equal(t, "c2", state2.Players[1].ConnID)
}

func TestHandleRestoreRoom_NonHost(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	bob := testutil.NewSimpleClient("c2", "Bob")
	code := createRoom(t, h, alice, "Alice")
	joinRoom(t, h, bob, code, "Bob")
	alice.Reset()
	bob.Reset()

	h.Handle(bob, codec.MustNewMessage(protocol.MsgRestoreRoom, protocol.RestoreRoomPayload{
		Code:    code,
		Players: []protocol.RestoredSlot{{Name: "Bob"}},
	}))

	assert.Empty(t, alice.SentTypes())
	assert.Empty(t, bob.SentTypes())
}

func TestHandleRestoreRoom_EmptySnapshot(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	alice := testutil.NewSimpleClient("c1", "Alice")
	code := createRoom(t, h, alice, "Alice")
	alice.Reset()

	h.Handle(alice, codec.MustNewMessage(protocol.MsgRestoreRoom, protocol.RestoreRoomPayload{
		Code:    code,
		Players: nil,
	}))

	errPayload := lastPayload[protocol.ErrorPayload](t, alice)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}

func TestHandleUnknownType(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	c := testutil.NewSimpleClient("c1", "Alice")
	h.Handle(c, &protocol.Message{Type: "teleport"})

	errPayload := lastPayload[protocol.ErrorPayload](t, c)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}
