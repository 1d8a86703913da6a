package app

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// SignalKind is the type of a point-to-point signaling message.
type SignalKind string

const (
	KindOffer        SignalKind = core.TypeOffer
	KindAnswer       SignalKind = core.TypeAnswer
	KindICECandidate SignalKind = core.TypeICECandidate
)

// Signal is a call-setup message addressed to one identity. Payload is
// relayed verbatim; SDP and ICE contents are never inspected.
type Signal struct {
	To      domain.IdentityKey
	From    domain.IdentityKey
	Payload json.RawMessage
	Room    domain.RoomName
}

func (s Signal) validate() error {
	switch {
	case s.To == "":
		return fmt.Errorf("%w: missing recipient", ErrMalformedSignal)
	case s.From == "":
		return fmt.Errorf("%w: missing sender", ErrMalformedSignal)
	case s.Room == "":
		return fmt.Errorf("%w: missing room", ErrMalformedSignal)
	case len(s.Payload) == 0 || string(s.Payload) == "null":
		return fmt.Errorf("%w: missing payload", ErrMalformedSignal)
	case !json.Valid(s.Payload):
		return fmt.Errorf("%w: payload is not json", ErrMalformedSignal)
	}
	return nil
}

// Relay routes signaling messages between connections. Delivery is best
// effort: a message for an identity with no live connection is dropped.
type Relay struct {
	reg   *Registry
	rooms *RoomManager
}

func NewRelay(reg *Registry, rooms *RoomManager) *Relay {
	return &Relay{reg: reg, rooms: rooms}
}

func (r *Relay) RelayOffer(s Signal) error        { return r.Deliver(KindOffer, s) }
func (r *Relay) RelayAnswer(s Signal) error       { return r.Deliver(KindAnswer, s) }
func (r *Relay) RelayICECandidate(s Signal) error { return r.Deliver(KindICECandidate, s) }

// Deliver sends s to the most recently registered connection of s.To.
// It returns ErrNoSuchPeer when the recipient is not connected.
func (r *Relay) Deliver(kind SignalKind, s Signal) error {
	if err := s.validate(); err != nil {
		return err
	}
	target, ok := r.reg.Latest(s.To)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("kind", string(kind)).Str("to", string(s.To)).Msg("no such peer, dropped")
		return ErrNoSuchPeer
	}
	f, err := core.Encode(core.SignalFrame{
		Type:    string(kind),
		From:    s.From,
		Room:    s.Room,
		Payload: s.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := r.reg.Send(target.ID, f); err != nil {
		log.Debug().Str("module", "app.relay").Str("kind", string(kind)).Str("to", string(s.To)).Msg("peer gone or slow, dropped")
		return err
	}
	log.Debug().Str("module", "app.relay").Str("kind", string(kind)).Str("from", string(s.From)).Str("to", string(s.To)).Str("cid", string(target.ID)).Msg("relayed")
	return nil
}

// SpeakingStart tells every member of room that c started speaking.
func (r *Relay) SpeakingStart(c *core.Connection, room domain.RoomName) (int, error) {
	return r.speaking(core.TypeSpeakingStart, c, room)
}

// SpeakingStop tells every member of room that c stopped speaking.
func (r *Relay) SpeakingStop(c *core.Connection, room domain.RoomName) (int, error) {
	return r.speaking(core.TypeSpeakingStop, c, room)
}

func (r *Relay) speaking(typ string, c *core.Connection, room domain.RoomName) (int, error) {
	if room == "" {
		return 0, fmt.Errorf("%w: missing room", ErrMalformedSignal)
	}
	f, err := core.Encode(core.SpeakingFrame{Type: typ, Identity: c.Key(), Room: room})
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", typ, err)
	}
	res, err := r.rooms.Fanout(room, f)
	if err != nil {
		return 0, err
	}
	return res.SendTo, nil
}
