package orch

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Signal relays a point-to-point message from c. The sender is always c's
// identity. A missing peer is not reported back to the sender; only a
// malformed message returns an error.
func (o *Orchestrator) Signal(c *core.Connection, kind app.SignalKind, to domain.IdentityKey, payload json.RawMessage, room domain.RoomName) error {
	err := o.Relay.Deliver(kind, app.Signal{
		To:      to,
		From:    c.Key(),
		Payload: payload,
		Room:    room,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrNoSuchPeer):
		return nil
	case errors.Is(err, app.ErrMalformedSignal):
		return err
	default:
		log.Error().Err(err).Str("module", "orch").Str("cid", string(c.ID)).Str("kind", string(kind)).Msg("relay failed")
		return nil
	}
}

// Speaking fans a speaking-state change out to room's members.
func (o *Orchestrator) Speaking(c *core.Connection, room domain.RoomName, speaking bool) error {
	var err error
	if speaking {
		_, err = o.Relay.SpeakingStart(c, room)
	} else {
		_, err = o.Relay.SpeakingStop(c, room)
	}
	if errors.Is(err, app.ErrUnknownRoom) {
		log.Debug().Str("module", "orch").Str("cid", string(c.ID)).Str("room", string(room)).Msg("speaking in unknown room ignored")
		return nil
	}
	return err
}
