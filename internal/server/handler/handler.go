// Package handler translates inbound session events into room
// operations and fans the results back out: membership changes go to the
// whole room, history syncs and errors go to the requester only.
package handler

import (
	"errors"
	"log"

	"github.com/campfire-trpg/campfire/internal/apperrors"
	"github.com/campfire-trpg/campfire/internal/game/room"
	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
	"github.com/campfire-trpg/campfire/internal/types"
)

// Deps are the handler's collaborators.
type Deps struct {
	Server types.ServerInterface
	Rooms  *room.Manager
}

// Handler dispatches inbound messages.
type Handler struct {
	server   types.ServerInterface
	rooms    *room.Manager
	handlers map[protocol.MessageType]handlerFunc
}

type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler creates the dispatcher.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		server: deps.Server,
		rooms:  deps.Rooms,
	}
	h.initHandlers()
	return h
}

func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgLeaveRoom:  func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },

		protocol.MsgUpdateCharacter: h.handleUpdateCharacter,
		protocol.MsgRestoreRoom:     h.handleRestoreRoom,
		protocol.MsgStartGame:       h.handleStartGame,

		protocol.MsgSendAction: h.handleSendAction,
		protocol.MsgGMResponse: h.handleGMResponse,
		protocol.MsgNextTurn:   h.handleNextTurn,
	}
}

// Handle dispatches one inbound message.
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  unknown message type %q from %s (%s), payload=%d bytes",
		msg.Type, client.GetName(), client.GetID(), len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// HandleDisconnect runs the leave path for a dropped transport.
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	h.handleLeaveRoom(client)
}

// sendError unicasts a failure to the requester only; rule violations
// never reach the rest of the room.
func sendError(client types.ClientInterface, err error) {
	var re *apperrors.RoomError
	if errors.As(err, &re) {
		client.SendMessage(codec.NewErrorMessageWithText(re.Code, re.Message))
		return
	}
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
}

// roomByCode resolves a room or unicasts not-found.
func (h *Handler) roomByCode(client types.ClientInterface, code string) *room.Room {
	r := h.rooms.GetRoom(code)
	if r == nil {
		sendError(client, apperrors.ErrRoomNotFound)
		return nil
	}
	return r
}

// roomState builds the member-list payload broadcast after every
// membership change.
func roomState(r *room.Room) protocol.RoomStatePayload {
	hostID, _, _ := r.Snapshot()
	return protocol.RoomStatePayload{
		Players: r.PlayerInfos(),
		HostID:  hostID,
	}
}
