// Package signal is the websocket transport adapter: it owns the
// connection lifecycle and translates wire envelopes into router calls.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mm-mmFrank/TheAudioApp/internal/app"
	"github.com/mm-mmFrank/TheAudioApp/internal/config"
	"github.com/mm-mmFrank/TheAudioApp/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Router     *app.EventRouter
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

func NewController(router *app.EventRouter, cfg *config.Config) *Controller {
	ctl := &Controller{
		Router:     router,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		SendBuffer: cfg.SendBuffer,
	}
	if ctl.ReadLimit <= 0 {
		ctl.ReadLimit = 32768
	}
	if ctl.PingPeriod <= 0 {
		ctl.PingPeriod = 54 * time.Second
	}
	if ctl.SendBuffer <= 0 {
		ctl.SendBuffer = 32
	}
	return ctl
}

type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
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

func (c *WsConn) Close() {
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

// HandleWS upgrades the request and starts the connection's pump pair.
// Each upgrade gets its own conn id; the participant id arrives later in
// the join event.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("client_token", token).Msg("new WS connection")

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cid, conn)
}
