package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/domain"
)

func TestDisconnectBeforeJoinIsNoop(t *testing.T) {
	rooms := NewRoomRegistry()
	sessions := NewSessionManager(rooms)
	conn := &fakeConn{}

	sessions.OnConnect("sid-1", conn, nil)
	sessions.OnDisconnect("sid-1")
	// Second teardown finds nothing.
	sessions.OnDisconnect("sid-1")

	require.Equal(t, 0, rooms.RoomCount())
	require.Empty(t, conn.eventTypes(t))
}

func TestJoinValidation(t *testing.T) {
	rooms := NewRoomRegistry()
	sessions := NewSessionManager(rooms)
	sessions.OnConnect("sid-1", &fakeConn{}, nil)

	err := sessions.OnJoin("sid-1", "", "alice", "en-US", "")
	require.ErrorIs(t, err, domain.ErrRoomNameEmpty)

	err = sessions.OnJoin("sid-1", "demo", "", "en-US", "")
	require.ErrorIs(t, err, domain.ErrParticipantIDEmpty)

	// Validation failures never mutate the registry.
	require.Equal(t, 0, rooms.RoomCount())
}

func TestJoinUnknownSession(t *testing.T) {
	sessions := NewSessionManager(NewRoomRegistry())
	err := sessions.OnJoin("never-connected", "demo", "alice", "en-US", "")
	require.ErrorIs(t, err, ErrSessionUnknown)
}

func TestRejoinDifferentRoomLeavesOld(t *testing.T) {
	rooms := NewRoomRegistry()
	sessions := NewSessionManager(rooms)
	sessions.OnConnect("sid-1", &fakeConn{}, nil)

	require.NoError(t, sessions.OnJoin("sid-1", "first", "alice", "en-US", ""))
	require.NoError(t, sessions.OnJoin("sid-1", "second", "alice", "en-US", ""))

	// The first room emptied out and vanished; only the second remains.
	require.Equal(t, 1, rooms.RoomCount())
	require.Len(t, rooms.MembersSnapshot("second"), 1)
	require.Empty(t, rooms.MembersSnapshot("first"))
}

func TestDisconnectLeavesRoomAndNotifies(t *testing.T) {
	rooms := NewRoomRegistry()
	sessions := NewSessionManager(rooms)
	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}
	sessions.OnConnect("sid-a", aliceConn, nil)
	sessions.OnConnect("sid-b", bobConn, nil)
	require.NoError(t, sessions.OnJoin("sid-a", "demo", "alice", "en-US", ""))
	require.NoError(t, sessions.OnJoin("sid-b", "demo", "bob", "tr-TR", ""))
	aliceConn.reset()
	bobConn.reset()

	sessions.OnDisconnect("sid-b")

	events := aliceConn.events(t)
	require.Len(t, events, 1)
	require.Equal(t, "user-left", events[0]["type"])
	require.Equal(t, "bob", events[0]["participantId"])
	require.Equal(t, 1, rooms.RoomCount())

	sessions.OnDisconnect("sid-a")
	require.Equal(t, 0, rooms.RoomCount())
}

func TestStaleDisconnectKeepsReconnectedMember(t *testing.T) {
	rooms := NewRoomRegistry()
	sessions := NewSessionManager(rooms)
	oldConn := &fakeConn{}
	freshConn := &fakeConn{}

	sessions.OnConnect("sid-old", oldConn, nil)
	require.NoError(t, sessions.OnJoin("sid-old", "demo", "alice", "en-US", ""))

	// Same identity comes back on a new connection before the old one is
	// torn down.
	sessions.OnConnect("sid-new", freshConn, nil)
	require.NoError(t, sessions.OnJoin("sid-new", "demo", "alice", "en-US", ""))

	sessions.OnDisconnect("sid-old")

	require.Equal(t, 1, rooms.RoomCount())
	require.Len(t, rooms.MembersSnapshot("demo"), 1)

	// The surviving binding still routes to the new connection.
	res := rooms.Broadcast("demo", "bob", core.Frame(`{"type":"x"}`))
	require.Equal(t, 1, res.SentTo)
	require.Empty(t, oldConn.eventTypes(t))
	require.Len(t, freshConn.events(t), 1)
}

func TestDisconnectCallsCancel(t *testing.T) {
	sessions := NewSessionManager(NewRoomRegistry())
	canceled := false
	sessions.OnConnect("sid-1", &fakeConn{}, func() { canceled = true })
	sessions.OnDisconnect("sid-1")
	require.True(t, canceled)
}
