package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room    *domain.Room
	mu      sync.RWMutex
	members map[domain.ParticipantID]MemberSession
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:    room,
		members: make(map[domain.ParticipantID]MemberSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) Upsert(ms MemberSession) bool {
	pid := ms.Meta().Participant
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.members[pid]
	r.members[pid] = ms
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("participant", string(pid)).Bool("replaced", replaced).Msg("member upserted")
	return replaced
}

func (r *roomImpl) Member(pid domain.ParticipantID) (MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ms, ok := r.members[pid]
	return ms, ok
}

func (r *roomImpl) Remove(pid domain.ParticipantID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[pid]; !ok {
		return false
	}
	delete(r.members, pid)
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("participant", string(pid)).Msg("member removed")
	return true
}

func (r *roomImpl) MembersExcept(exclude domain.ParticipantID) []MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSession, 0, len(r.members))
	for pid, ms := range r.members {
		if pid == exclude {
			continue
		}
		out = append(out, ms)
	}
	return out
}

func (r *roomImpl) Broadcast(from domain.ParticipantID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for pid, m := range r.members {
		if pid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []domain.Membership {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Membership, 0, len(r.members))
	for _, ms := range r.members {
		out = append(out, *ms.Meta())
	}
	return out
}
