package orch

import (
	"errors"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join moves c into room. An unknown room is ignored without a broadcast.
func (o *Orchestrator) Join(c *core.Connection, room domain.RoomName) {
	err := o.Rooms.Join(c, room)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrUnknownRoom):
		log.Warn().Str("module", "orch").Str("cid", string(c.ID)).Str("room", string(room)).Msg("join unknown room ignored")
	default:
		log.Warn().Err(err).Str("module", "orch").Str("cid", string(c.ID)).Msg("join failed")
	}
}

// Leave removes c from room if it is there.
func (o *Orchestrator) Leave(c *core.Connection, room domain.RoomName) {
	if !o.Rooms.Leave(c.ID, room) {
		log.Debug().Str("module", "orch").Str("cid", string(c.ID)).Str("room", string(room)).Msg("leave ignored, not in room")
	}
}

func (o *Orchestrator) RoomOf(c *core.Connection) (domain.RoomName, bool) {
	return o.Rooms.RoomOf(c.ID)
}

// Snapshot is the read used by the REST layer to seed a fresh UI.
func (o *Orchestrator) Snapshot() core.Snapshot {
	return o.Rooms.Snapshot()
}

func (o *Orchestrator) Online() []domain.IdentityKey {
	return o.Presence.Online()
}
