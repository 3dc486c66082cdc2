package apperrors

import (
	"github.com/campfire-trpg/campfire/internal/protocol"
)

// RoomError is a business-rule violation surfaced to the requester only.
type RoomError struct {
	Code    int
	Message string
}

func (e *RoomError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrRoomNotFound = &RoomError{Code: protocol.ErrCodeRoomNotFound, Message: "room does not exist"}
	ErrRoomFull     = &RoomError{Code: protocol.ErrCodeRoomFull, Message: "room is full"}
	ErrNotInRoom    = &RoomError{Code: protocol.ErrCodeNotInRoom, Message: "you are not in a room"}
	ErrGameStarted  = &RoomError{Code: protocol.ErrCodeGameStarted, Message: "game has already started"}
	ErrNotAllReady  = &RoomError{Code: protocol.ErrCodeNotAllReady, Message: "all players must create a character first"}
)
