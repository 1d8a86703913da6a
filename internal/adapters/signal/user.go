package signal

import (
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(
	cx *core.Connection,
	conn *WsSignalConn,
) {
	resp := struct {
		Type         string              `json:"type"`
		Identity     domain.IdentityKey  `json:"identity"`
		ConnectionID domain.ConnectionID `json:"connection_id"`
		Room         domain.RoomName     `json:"room,omitempty"`
	}{
		Type:         core.TypeWhoAmI,
		Identity:     cx.Key(),
		ConnectionID: cx.ID,
	}
	if room, ok := ctl.Orch.RoomOf(cx); ok {
		resp.Room = room
	}
	ctl.sendJSON(conn, resp)
}
