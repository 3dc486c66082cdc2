package handler

import (
	"strings"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
	"github.com/campfire-trpg/campfire/internal/types"
)

// Chat messages are relayed verbatim; the server never interprets their
// content. Player actions carry the sender's display name, GM responses
// are attributed to the fixed "GM" speaker.

func (h *Handler) handleSendAction(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SendActionPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.rooms.GetRoom(strings.ToUpper(payload.Code))
	if r == nil {
		return
	}

	sender := payload.Sender
	if sender == "" {
		sender = "Unknown"
	}
	r.Broadcast(codec.MustNewMessage(protocol.MsgNewMessage, protocol.NewMessagePayload{
		Sender:  sender,
		Content: payload.Content,
		Type:    protocol.SpeakerUser,
	}))
}

func (h *Handler) handleGMResponse(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.GMResponsePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.rooms.GetRoom(strings.ToUpper(payload.Code))
	if r == nil {
		return
	}

	r.Broadcast(codec.MustNewMessage(protocol.MsgNewMessage, protocol.NewMessagePayload{
		Sender:  "GM",
		Content: payload.Content,
		Type:    protocol.SpeakerAssistant,
	}))
}
