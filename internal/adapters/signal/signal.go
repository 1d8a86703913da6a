package signal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/app/orch"
	"github.com/dkeye/huddle/internal/config"
	"github.com/dkeye/huddle/internal/core"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// SessionKey is the cookie session key holding the login token.
const SessionKey = "session_id"

type SignalWSController struct {
	Orch    *orch.Orchestrator
	cfg     *config.Config
	limiter *RoomRateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		cfg:     cfg,
		limiter: NewRoomRateLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval),
	}
}

// WsSignalConn is the core.SignalConnection over a gorilla websocket. Frames
// are queued on send and written by writePump only.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
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

// HandleSignal authenticates the request and only then upgrades it, so a
// refused attempt leaves no state behind.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	identity, err := ctl.Orch.Authenticate(c.Request.Context(), sessionToken(c))
	if err != nil {
		status := rejectStatus(err)
		log.Warn().Err(err).Str("module", "signal").Int("status", status).Msg("connection refused")
		c.AbortWithStatusJSON(status, gin.H{"error": app.RejectReason(err)})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	cx, err := ctl.Orch.Attach(ctx, identity, conn)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("attach")
		conn.Close()
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cx.ID)).Str("identity", string(cx.Key())).Msg("new WS connection")

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, cancel, cx, conn)
}

// sessionToken looks in the query, the headers and the cookie session, in
// that order.
func sessionToken(c *gin.Context) string {
	if t := c.Query("session"); t != "" {
		return t
	}
	if t := c.GetHeader("X-Session-Id"); t != "" {
		return t
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if t, ok := sessions.Default(c).Get(SessionKey).(string); ok {
		return t
	}
	return ""
}

func rejectStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, app.ErrAuthRejected):
		return http.StatusUnauthorized
	default:
		return http.StatusServiceUnavailable
	}
}
