package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/domain"
	"github.com/ekinok/lingoroom/internal/protocol"
)

func (ctl *Controller) handleJoinRoom(sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p protocol.JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, protocol.ErrorEvent{Type: protocol.EvtError, Error: "bad_payload"})
		return
	}

	name := domain.RoomName(p.Room)
	pid := domain.ParticipantID(p.ParticipantID)
	if err := ctl.Sessions.OnJoin(sid, name, pid, p.Language, p.Voice); err != nil {
		// Validation failures go to the initiating connection only.
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join rejected")
		ctl.sendJSON(conn, protocol.ErrorEvent{Type: protocol.EvtError, Error: err.Error()})
		return
	}

	members := ctl.Sessions.Rooms().MembersSnapshot(name)
	resp := protocol.RoomState{
		Type:    protocol.EvtRoomState,
		Room:    name,
		Members: make([]protocol.Member, 0, len(members)),
		Count:   len(members),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, protocol.Member{
			ParticipantID: m.Participant,
			Language:      m.Language,
		})
	}
	ctl.sendJSON(conn, resp)
}
