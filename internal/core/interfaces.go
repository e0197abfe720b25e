package core

import "github.com/ekinok/lingoroom/internal/domain"

// Frame is an encoded wire payload (one websocket message).
type Frame []byte

// SessionID identifies a live connection, not a participant.
type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it. Everything the
// room layer holds is a non-owning reference used to route outbound frames.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds domain.Membership and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Meta() *domain.Membership
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to the relay.
type PublishResult struct {
	SentTo  int
	Dropped []MemberSession
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []domain.Membership

	// Upsert adds or replaces the membership keyed by participant identity.
	// Replacing abandons the prior connection binding without closing it.
	Upsert(ms MemberSession) (replaced bool)
	Member(pid domain.ParticipantID) (MemberSession, bool)
	Remove(pid domain.ParticipantID) bool
	MembersExcept(exclude domain.ParticipantID) []MemberSession
	Broadcast(from domain.ParticipantID, data Frame) PublishResult
}
