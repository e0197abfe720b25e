package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/domain"
	"github.com/ekinok/lingoroom/internal/protocol"
)

// RoomRegistry owns the room-name -> room mapping. Rooms are created
// implicitly on first join and removed when the last member leaves, so an
// empty room never lingers in the map. Pass it by reference into the
// session manager and relay; tests build independent registries.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]core.RoomService
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomName]core.RoomService)}
}

// Join upserts the membership and notifies the members that were present
// before the mutation with a user-joined event. The joiner never receives
// its own join notification; the notification set is snapshotted before
// the upsert so a replaced binding is not notified either.
func (r *RoomRegistry) Join(name domain.RoomName, ms core.MemberSession) {
	r.mu.Lock()
	room, ok := r.rooms[name]
	if !ok {
		room = core.NewRoomService(&domain.Room{Name: name})
		r.rooms[name] = room
		log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room created")
	}
	meta := ms.Meta()
	others := room.MembersExcept(meta.Participant)
	room.Upsert(ms)
	r.mu.Unlock()

	if len(others) == 0 {
		return
	}
	frame, err := protocol.Encode(protocol.UserJoined{
		Type:          protocol.EvtUserJoined,
		ParticipantID: meta.Participant,
		Language:      meta.Language,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.rooms").Msg("encode user-joined")
		return
	}
	for _, other := range others {
		_ = other.Signal().TrySend(frame)
	}
}

// Leave removes the membership if present and notifies the remaining
// members with a user-left event. A leave against an unknown room or
// member is a no-op: disconnect races are expected, not errors. A non-nil
// conn makes the removal conditional on the membership still routing to
// that connection, so the teardown of a binding replaced by a
// reconnect-with-same-identity cannot evict the fresh one. nil removes
// unconditionally by identity.
func (r *RoomRegistry) Leave(name domain.RoomName, pid domain.ParticipantID, conn core.SignalConnection) {
	r.mu.Lock()
	room, ok := r.rooms[name]
	if !ok {
		r.mu.Unlock()
		return
	}
	if conn != nil {
		if ms, ok := room.Member(pid); !ok || ms.Signal() != conn {
			r.mu.Unlock()
			return
		}
	}
	if !room.Remove(pid) {
		r.mu.Unlock()
		return
	}
	remaining := room.MembersExcept(pid)
	if room.MemberCount() == 0 {
		delete(r.rooms, name)
		log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room removed")
	}
	r.mu.Unlock()

	if len(remaining) == 0 {
		return
	}
	frame, err := protocol.Encode(protocol.UserLeft{
		Type:          protocol.EvtUserLeft,
		ParticipantID: pid,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.rooms").Msg("encode user-left")
		return
	}
	for _, other := range remaining {
		_ = other.Signal().TrySend(frame)
	}
}

// MembersExcept returns an unordered snapshot of the other members'
// sessions. Unknown rooms yield an empty slice.
func (r *RoomRegistry) MembersExcept(name domain.RoomName, exclude domain.ParticipantID) []core.MemberSession {
	r.mu.RLock()
	room, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return room.MembersExcept(exclude)
}

// Broadcast fans a frame out to every member of the room except the sender.
func (r *RoomRegistry) Broadcast(name domain.RoomName, from domain.ParticipantID, data core.Frame) core.PublishResult {
	r.mu.RLock()
	room, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return core.PublishResult{}
	}
	return room.Broadcast(from, data)
}

// MembersSnapshot returns the read-only membership view used in join acks.
func (r *RoomRegistry) MembersSnapshot(name domain.RoomName) []domain.Membership {
	r.mu.RLock()
	room, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return room.MembersSnapshot()
}

func (r *RoomRegistry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
