package handler

import (
	"strings"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
	"github.com/campfire-trpg/campfire/internal/types"
)

// Turn order is advisory: any connection may advance the pointer, the
// server only keeps everyone's view consistent.
func (h *Handler) handleNextTurn(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.NextTurnPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.rooms.GetRoom(strings.ToUpper(payload.Code))
	if r == nil {
		return
	}

	next := r.AdvanceTurn()
	r.Broadcast(codec.MustNewMessage(protocol.MsgTurnChanged, protocol.TurnChangedPayload{
		TurnIndex: next,
	}))
}
