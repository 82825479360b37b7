package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/RandomChat/internal/app"
	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

type SignalWSController struct {
	Registry   *app.Registry
	Factory    *orch.Factory
	Limiter    *MessageRateLimiter
	ICEURLs    []string
	ReadLimit  int64
	PingPeriod time.Duration
}

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
		return ErrClosed
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

// HandleSignal upgrades the request and runs one chat session for the
// client token until the socket closes.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
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

	o := ctl.Factory.New(sid)
	o.OnState(func(st orch.State) {
		ctl.sendJSON(conn, NewStateFrame(st))
	})

	ctx, cancel := context.WithCancel(ctx)
	ctl.Registry.Bind(sid, o, conn, cancel)

	ctl.acquireMedia(ctx, o, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, o, conn)
}

func (ctl *SignalWSController) acquireMedia(ctx context.Context, o *orch.Orchestrator, conn core.SignalConnection) {
	if err := o.AcquireMedia(ctx); err != nil {
		ctl.sendJSON(conn, map[string]any{
			"type":  "warning",
			"error": "media_unavailable",
		})
	}
}
