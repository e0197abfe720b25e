// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const (
	MaxParticipantIDLen = 64
	MaxRoomNameLen      = 64
)

var (
	ErrParticipantIDEmpty   = errors.New("participant id empty")
	ErrParticipantIDTooLong = errors.New("participant id too long")
)

// ParticipantID is the caller-supplied identity of a room participant.
// Unique within a room, not globally.
type ParticipantID string

func (p ParticipantID) Validate() error {
	if len(p) == 0 {
		return ErrParticipantIDEmpty
	}
	if len(p) > MaxParticipantIDLen {
		return ErrParticipantIDTooLong
	}
	return nil
}
