package handler

import (
	"log"
	"strings"

	"github.com/campfire-trpg/campfire/internal/game/room"
	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
	"github.com/campfire-trpg/campfire/internal/types"
)

func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
		return
	}

	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// A client opening a fresh room abandons whatever room it was in.
	if client.GetRoom() != "" {
		h.handleLeaveRoom(client)
	}

	name := payload.Name
	if name == "" {
		name = "Unknown"
	}
	client.SetName(name)

	r := h.rooms.CreateRoom(client, name)
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		Code:    r.Code,
		Players: r.PlayerInfos(),
	}))
}

func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	code := strings.ToUpper(payload.Code)
	r := h.roomByCode(client, code)
	if r == nil {
		return
	}

	name := payload.Name
	if name == "" {
		name = "Guest"
	}
	client.SetName(name)

	outcome, err := r.Join(client, name)
	if err != nil {
		sendError(client, err)
		return
	}
	if outcome == room.JoinIgnored {
		return
	}

	log.Printf("👤 %s joined room %s (%s)", name, code, outcome)
	r.Broadcast(codec.MustNewMessage(protocol.MsgPlayerJoined, roomState(r)))
	client.SendMessage(codec.MustNewMessage(protocol.MsgSyncHistory, protocol.SyncHistoryPayload{
		ChatHTML: r.Transcript(),
	}))
}

func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	r, res := h.rooms.LeaveRoom(client)
	if !res.Left || res.Emptied {
		return
	}

	r.Broadcast(codec.MustNewMessage(protocol.MsgPlayerLeft, roomState(r)))
}

func (h *Handler) handleUpdateCharacter(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.UpdateCharacterPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomByCode(client, strings.ToUpper(payload.Code))
	if r == nil {
		return
	}

	if !r.UpdateCharacter(client.GetID(), payload.Character) {
		return
	}

	r.Broadcast(codec.MustNewMessage(protocol.MsgPlayerUpdated, roomState(r)))
}

func (h *Handler) handleRestoreRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.RestoreRoomPayload](msg)
	if err != nil || len(payload.Players) == 0 {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomByCode(client, strings.ToUpper(payload.Code))
	if r == nil {
		return
	}

	outcome := r.Restore(client, payload.Players, payload.TurnIndex, payload.ChatHTML, payload.StartPlaying)
	if outcome == room.RestoreIgnored {
		return
	}

	log.Printf("📂 room %s restored by %s: %d slots, turn %d, playing=%v",
		r.Code, client.GetName(), len(payload.Players), payload.TurnIndex, payload.StartPlaying)

	r.Broadcast(codec.MustNewMessage(protocol.MsgPlayerUpdated, roomState(r)))
	r.Broadcast(codec.MustNewMessage(protocol.MsgSyncHistory, protocol.SyncHistoryPayload{
		ChatHTML: r.Transcript(),
	}))

	if payload.StartPlaying {
		_, _, turn := r.Snapshot()
		r.Broadcast(codec.MustNewMessage(protocol.MsgGameStarted, protocol.GameStartedPayload{
			Players:   r.PlayerInfos(),
			TurnIndex: turn,
		}))
	}
}

func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.StartGamePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomByCode(client, strings.ToUpper(payload.Code))
	if r == nil {
		return
	}

	outcome, err := r.Start(client.GetID())
	if err != nil {
		sendError(client, err)
		return
	}
	if outcome == room.StartIgnored {
		return
	}

	log.Printf("🎲 room %s started by %s", r.Code, client.GetName())
	_, _, turn := r.Snapshot()
	r.Broadcast(codec.MustNewMessage(protocol.MsgGameStarted, protocol.GameStartedPayload{
		Players:   r.PlayerInfos(),
		TurnIndex: turn,
	}))
}
