package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomFull    = "room_full"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeTooLarge    = "message_too_large"
	ErrCodeBadRequest  = "bad_request"
	ErrCodeUnknownType = "unknown_type"
	ErrCodeNotAssigned = "not_assigned"
)

var ErrRoomClosed = errors.New("room closed")

// RoomError wraps a code and human-readable message.
type RoomError struct {
	Code    string
	Message string
}

func (e *RoomError) Error() string {
	return e.Message
}

func roomError(code, msg string) *RoomError {
	return &RoomError{Code: code, Message: msg}
}
