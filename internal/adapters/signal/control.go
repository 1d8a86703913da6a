package signal

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: core.TypePong,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleSpeaking(
	cx *core.Connection,
	conn *WsSignalConn,
	speaking bool,
	data []byte,
) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Orch.Speaking(cx, domain.RoomName(p.Room), speaking); err != nil {
		ctl.sendError(conn, "malformed_signal")
	}
}
