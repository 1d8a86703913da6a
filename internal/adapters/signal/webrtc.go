package signal

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleRelay forwards offer, answer and ice_candidate frames. Any "from"
// the client sends is ignored.
func (ctl *SignalWSController) handleRelay(
	cx *core.Connection,
	conn *WsSignalConn,
	kind string,
	data []byte,
) {
	var p struct {
		To      string          `json:"to"`
		Room    string          `json:"room"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad relay payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	err := ctl.Orch.Signal(cx, app.SignalKind(kind), domain.IdentityKey(p.To), p.Payload, domain.RoomName(p.Room))
	if errors.Is(err, app.ErrMalformedSignal) {
		ctl.sendError(conn, "malformed_signal")
	}
}
