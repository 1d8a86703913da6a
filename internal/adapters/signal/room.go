package signal

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomPayload struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

func (ctl *SignalWSController) handleJoin(
	cx *core.Connection,
	conn *WsSignalConn,
	data []byte,
) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.limiter.Allow(cx.Identity.ID) {
		log.Warn().Str("module", "signal").Str("cid", string(cx.ID)).Msg("join rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cx.ID)).Str("room", p.Room).Msg("join")
	ctl.Orch.Join(cx, domain.RoomName(p.Room))
}

// handleLeave leaves the named room; the connection stays open.
func (ctl *SignalWSController) handleLeave(
	cx *core.Connection,
	conn *WsSignalConn,
	data []byte,
) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cx.ID)).Str("room", p.Room).Msg("leave")
	ctl.Orch.Leave(cx, domain.RoomName(p.Room))
}
