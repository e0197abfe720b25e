package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/domain"
)

// ErrSessionUnknown means a join referenced a session id that was never
// connected or is already torn down.
var ErrSessionUnknown = errors.New("session unknown")

type sessionEntry struct {
	Conn        core.SignalConnection
	Room        domain.RoomName
	Participant domain.ParticipantID
	Language    string
	Voice       string
	Cancel      context.CancelFunc
}

// SessionView is a read-only snapshot of a session for the relay.
type SessionView struct {
	Conn        core.SignalConnection
	Room        domain.RoomName
	Participant domain.ParticipantID
	Language    string
	Voice       string
}

// SessionManager binds live connections to identities, language
// preferences and room membership. It owns the connection lifecycle; the
// room registry only ever holds non-owning references routed through it.
type SessionManager struct {
	mu       sync.RWMutex
	rooms    *RoomRegistry
	sessions map[core.SessionID]*sessionEntry
}

func NewSessionManager(rooms *RoomRegistry) *SessionManager {
	return &SessionManager{
		rooms:    rooms,
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// OnConnect allocates a session with empty room and identity.
func (m *SessionManager) OnConnect(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = &sessionEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Msg("session connected")
}

// OnJoin validates the identifiers, binds the session fields and delegates
// to the room registry. Validation failures are reported to the caller
// only and leave the registry untouched. A session already bound to a
// room leaves that room first, so stale memberships never accumulate.
func (m *SessionManager) OnJoin(sid core.SessionID, name domain.RoomName, pid domain.ParticipantID, language, voice string) error {
	if err := name.Validate(); err != nil {
		return err
	}
	meta, err := domain.NewMembership(pid, language, voice)
	if err != nil {
		return err
	}

	m.mu.Lock()
	entry, ok := m.sessions[sid]
	if !ok {
		m.mu.Unlock()
		return ErrSessionUnknown
	}
	prevRoom, prevPID := entry.Room, entry.Participant
	entry.Room = name
	entry.Participant = pid
	entry.Language = language
	entry.Voice = voice
	conn := entry.Conn
	m.mu.Unlock()

	// A duplicate join with the same identity is an upsert, not a move.
	if prevRoom != "" && (prevRoom != name || prevPID != pid) {
		m.rooms.Leave(prevRoom, prevPID, conn)
		log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Str("from_room", string(prevRoom)).Msg("left previous room")
	}

	m.rooms.Join(name, core.NewMemberSession(meta, conn))
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Str("room", string(name)).Str("participant", string(pid)).Str("language", language).Msg("joined room")
	return nil
}

// OnDisconnect tears the session down: leaves the bound room if any, then
// forgets the session. Safe before any join and safe to call more than
// once; the second call finds nothing.
func (m *SessionManager) OnDisconnect(sid core.SessionID) {
	m.mu.Lock()
	entry, ok := m.sessions[sid]
	if ok {
		delete(m.sessions, sid)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	// Guarded by the connection: if another session rebound this identity
	// in the meantime, the fresh membership stays.
	if entry.Room != "" && entry.Participant != "" {
		m.rooms.Leave(entry.Room, entry.Participant, entry.Conn)
	}
	if entry.Cancel != nil {
		entry.Cancel()
	}
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Msg("session disconnected")
}

// Rooms exposes the registry this manager mutates, for read-only queries.
func (m *SessionManager) Rooms() *RoomRegistry { return m.rooms }

// View returns a snapshot of the session, or false if unknown.
func (m *SessionManager) View(sid core.SessionID) (SessionView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[sid]
	if !ok {
		return SessionView{}, false
	}
	return SessionView{
		Conn:        entry.Conn,
		Room:        entry.Room,
		Participant: entry.Participant,
		Language:    entry.Language,
		Voice:       entry.Voice,
	}, true
}

// EvictFromRoom drops the room binding of whichever session holds the
// given identity in the given room. Used by the backpressure policy.
func (m *SessionManager) EvictFromRoom(name domain.RoomName, pid domain.ParticipantID) {
	m.mu.Lock()
	for sid, entry := range m.sessions {
		if entry.Room == name && entry.Participant == pid {
			entry.Room = ""
			entry.Participant = ""
			log.Warn().Str("module", "app.sessions").Str("sid", string(sid)).Str("room", string(name)).Str("participant", string(pid)).Msg("evicted from room")
			break
		}
	}
	m.mu.Unlock()

	m.rooms.Leave(name, pid, nil)
}
