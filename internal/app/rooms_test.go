package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/domain"
)

// fakeConn records every frame it is asked to deliver. Set reject to make
// TrySend report backpressure.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	reject bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	if c.reject {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// events decodes every recorded frame into a generic map.
func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}

func (c *fakeConn) eventTypes(t *testing.T) []string {
	t.Helper()
	var types []string
	for _, e := range c.events(t) {
		types = append(types, e["type"].(string))
	}
	return types
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func newMember(t *testing.T, pid domain.ParticipantID, language, voice string, conn core.SignalConnection) core.MemberSession {
	t.Helper()
	meta, err := domain.NewMembership(pid, language, voice)
	require.NoError(t, err)
	return core.NewMemberSession(meta, conn)
}

func TestJoinLeaveMemberCount(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")

	for _, pid := range []domain.ParticipantID{"alice", "bob", "carol"} {
		rooms.Join(room, newMember(t, pid, "en-US", "", &fakeConn{}))
	}
	require.Len(t, rooms.MembersSnapshot(room), 3)

	rooms.Leave(room, "bob", nil)
	require.Len(t, rooms.MembersSnapshot(room), 2)
	require.Equal(t, 1, rooms.RoomCount())
}

func TestDuplicateJoinIsUpsert(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")
	old := &fakeConn{}
	fresh := &fakeConn{}

	rooms.Join(room, newMember(t, "alice", "en-US", "", old))
	rooms.Join(room, newMember(t, "alice", "en-US", "", fresh))

	require.Len(t, rooms.MembersSnapshot(room), 1)
	// The prior binding is abandoned, not closed: reconnect-with-same-identity.
	require.False(t, old.closed)
	// The joiner never receives its own join, on either binding.
	require.Empty(t, old.eventTypes(t))
	require.Empty(t, fresh.eventTypes(t))
}

func TestLeaveIgnoresStaleConnection(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")
	old := &fakeConn{}
	fresh := &fakeConn{}

	rooms.Join(room, newMember(t, "alice", "en-US", "", old))
	rooms.Join(room, newMember(t, "alice", "en-US", "", fresh))

	// The replaced connection's teardown must not evict the fresh binding.
	rooms.Leave(room, "alice", old)
	require.Len(t, rooms.MembersSnapshot(room), 1)
	require.Equal(t, 1, rooms.RoomCount())

	rooms.Leave(room, "alice", fresh)
	require.Equal(t, 0, rooms.RoomCount())
}

func TestEmptyRoomRemoved(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")

	rooms.Join(room, newMember(t, "alice", "en-US", "", &fakeConn{}))
	require.Equal(t, 1, rooms.RoomCount())

	rooms.Leave(room, "alice", nil)
	require.Equal(t, 0, rooms.RoomCount())
	require.Empty(t, rooms.MembersExcept(room, ""))
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	rooms := NewRoomRegistry()
	rooms.Leave("ghost", "nobody", nil)
	require.Equal(t, 0, rooms.RoomCount())

	// Leaving a member that is not in an existing room is also a no-op.
	rooms.Join("demo", newMember(t, "alice", "en-US", "", &fakeConn{}))
	rooms.Leave("demo", "nobody", nil)
	require.Len(t, rooms.MembersSnapshot("demo"), 1)
}

func TestJoinNotifiesOthersOnly(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")
	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}

	rooms.Join(room, newMember(t, "alice", "en-US", "", aliceConn))
	require.Empty(t, aliceConn.eventTypes(t))

	rooms.Join(room, newMember(t, "bob", "tr-TR", "", bobConn))
	require.Empty(t, bobConn.eventTypes(t))

	events := aliceConn.events(t)
	require.Len(t, events, 1)
	require.Equal(t, "user-joined", events[0]["type"])
	require.Equal(t, "bob", events[0]["participantId"])
	require.Equal(t, "tr-TR", events[0]["language"])
}

func TestLeaveNotifiesRemaining(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")
	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}

	rooms.Join(room, newMember(t, "alice", "en-US", "", aliceConn))
	rooms.Join(room, newMember(t, "bob", "tr-TR", "", bobConn))
	aliceConn.reset()
	bobConn.reset()

	rooms.Leave(room, "bob", nil)
	require.Empty(t, bobConn.eventTypes(t))

	events := aliceConn.events(t)
	require.Len(t, events, 1)
	require.Equal(t, "user-left", events[0]["type"])
	require.Equal(t, "bob", events[0]["participantId"])
}

func TestBroadcastExcludesSender(t *testing.T) {
	rooms := NewRoomRegistry()
	room := domain.RoomName("demo")
	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}

	rooms.Join(room, newMember(t, "alice", "en-US", "", aliceConn))
	rooms.Join(room, newMember(t, "bob", "tr-TR", "", bobConn))
	aliceConn.reset()
	bobConn.reset()

	res := rooms.Broadcast(room, "alice", core.Frame(`{"type":"x"}`))
	require.Equal(t, 1, res.SentTo)
	require.Empty(t, aliceConn.eventTypes(t))
	require.Len(t, bobConn.events(t), 1)
}

func TestMembersExceptUnknownRoom(t *testing.T) {
	rooms := NewRoomRegistry()
	require.Empty(t, rooms.MembersExcept("ghost", "alice"))
}
