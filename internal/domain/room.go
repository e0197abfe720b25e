package domain

import "errors"

var (
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")
)

// RoomName identifies a broadcast domain. Case-sensitive, externally supplied.
type RoomName string

func (n RoomName) Validate() error {
	if len(n) == 0 {
		return ErrRoomNameEmpty
	}
	if len(n) > MaxRoomNameLen {
		return ErrRoomNameTooLong
	}
	return nil
}

type Room struct {
	Name RoomName
}
