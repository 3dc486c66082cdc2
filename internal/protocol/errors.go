package protocol

// Error codes.
const (
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004
	ErrCodeNotAllReady  = 2005
	ErrCodeStorage      = 4001
	ErrCodeMaintenance  = 5003
)

// ErrorMessages maps error codes to their default texts.
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "unknown error",
	ErrCodeInvalidMsg:   "invalid message format",
	ErrCodeRoomNotFound: "room does not exist",
	ErrCodeRoomFull:     "room is full",
	ErrCodeNotInRoom:    "you are not in a room",
	ErrCodeGameStarted:  "game has already started",
	ErrCodeNotAllReady:  "all players must create a character first",
	ErrCodeStorage:      "storage failure",
	ErrCodeMaintenance:  "server is under maintenance",
}
