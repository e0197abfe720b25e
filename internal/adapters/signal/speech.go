package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/protocol"
)

func (ctl *Controller) handleSpeechInput(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p protocol.SpeechInput
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad speech payload")
		ctl.sendJSON(conn, protocol.ErrorEvent{Type: protocol.EvtError, Error: "bad_payload"})
		return
	}
	// Off the read loop: the translate call blocks and other connections'
	// events must interleave while it is in flight.
	go ctl.Relay.OnSpeechInput(ctx, sid, p)
}
