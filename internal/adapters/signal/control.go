package signal

import "github.com/ekinok/lingoroom/internal/protocol"

func (ctl *Controller) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, protocol.Pong{Type: protocol.EvtPong})
}
