package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/protocol"
)

func (ctl *Controller) handleTTSForMe(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p protocol.TTSRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad tts payload")
		ctl.sendJSON(conn, protocol.ErrorEvent{Type: protocol.EvtError, Error: "bad_payload"})
		return
	}
	go ctl.Relay.OnTTSRequest(ctx, sid, p)
}

func (ctl *Controller) handleGetVoices(ctx context.Context, sid core.SessionID) {
	go ctl.Relay.OnGetVoices(ctx, sid)
}
