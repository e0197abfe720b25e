// Package signal is the websocket adapter: it owns connections and pumps
// frames between the transport and the app layer.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/app"
	"github.com/ekinok/lingoroom/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Sessions   *app.SessionManager
	Relay      *app.RelayEngine
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(sessions *app.SessionManager, relay *app.RelayEngine, readLimit int64, pingPeriod time.Duration) *Controller {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &Controller{
		Sessions:   sessions,
		Relay:      relay,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

// WsSignalConn wraps one websocket with a bounded send queue. TrySend
// never blocks; a full queue reports backpressure to the caller.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	// The pumps die with the connection; relay work dispatched from the
	// read loop runs on the server-lifetime ctx so a sender disconnect
	// never aborts an in-flight gateway call.
	connCtx, cancel := context.WithCancel(ctx)
	ctl.Sessions.OnConnect(sid, conn, cancel)

	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, ctx, sid, conn)
}
