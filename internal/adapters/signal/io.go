package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/protocol"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drains the socket. connCtx ends with the connection; relayCtx
// outlives it, so utterances already handed to the app layer complete and
// broadcast to the remaining members.
func (ctl *Controller) readPump(connCtx, relayCtx context.Context, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Sessions.OnDisconnect(sid)
		c.Close()
	}()

	for {
		select {
		case <-connCtx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.handleSignal(relayCtx, sid, c, data)
		}
	}
}

func (ctl *Controller) handleSignal(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case protocol.EvtJoinRoom:
		ctl.handleJoinRoom(sid, c, data)
	case protocol.EvtSpeechInput:
		ctl.handleSpeechInput(ctx, sid, c, data)
	case protocol.EvtTTSForMe:
		ctl.handleTTSForMe(ctx, sid, c, data)
	case protocol.EvtGetVoices:
		ctl.handleGetVoices(ctx, sid)
	case protocol.EvtPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendJSON(c, protocol.ErrorEvent{Type: protocol.EvtError, Error: "unknown event type"})
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	b, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
