package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	// closing the socket unblocks readPump, which then unwinds the connection
	defer c.Close()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
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

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, cx *core.Connection, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cx.ID)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(context.WithoutCancel(ctx), cx.ID)
		c.Close()
		cancel()
	}()

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cx.ID)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("cid", string(cx.ID)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(cx, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(cx *core.Connection, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cx.ID)).Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case "join_room":
		ctl.handleJoin(cx, c, data)
	case "leave_room":
		ctl.handleLeave(cx, c, data)
	case core.TypeOffer, core.TypeAnswer, core.TypeICECandidate:
		ctl.handleRelay(cx, c, env.Type, data)
	case core.TypeSpeakingStart, core.TypeSpeakingStop:
		ctl.handleSpeaking(cx, c, env.Type == core.TypeSpeakingStart, data)
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(cx, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(c, "unknown_type")
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	f, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(f)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, reason string) {
	ctl.sendJSON(c, core.ErrorFrame{Type: core.TypeError, Error: reason})
}
