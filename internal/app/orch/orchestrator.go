package orch

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the per-process coordinator. It owns the connection table
// and room state and hands them to the presence tracker, room registry and
// signaling relay; nothing else reaches that state directly.
type Orchestrator struct {
	Auth     *app.Authenticator
	Registry *app.Registry
	Presence *app.Presence
	Rooms    *app.RoomManager
	Relay    *app.Relay

	newID func() domain.ConnectionID
	now   func() time.Time
}

type Options struct {
	Store       core.SessionStore
	PresenceLog core.PresenceLog
	Rooms       []domain.RoomName
	Policy      app.Policy
	// PersistTimeout bounds each presence log write.
	PersistTimeout time.Duration
}

func New(opts Options) *Orchestrator {
	reg := app.NewRegistry(opts.Policy)
	rooms := app.NewRoomManager(reg, opts.Rooms)
	return &Orchestrator{
		Auth:     app.NewAuthenticator(opts.Store),
		Registry: reg,
		Presence: app.NewPresence(reg, opts.PresenceLog, opts.PersistTimeout),
		Rooms:    rooms,
		Relay:    app.NewRelay(reg, rooms),
		newID:    func() domain.ConnectionID { return domain.ConnectionID(uuid.NewString()) },
		now:      time.Now,
	}
}

// Authenticate checks a connection attempt before any transport state exists.
func (o *Orchestrator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	return o.Auth.Authenticate(ctx, token)
}

// Attach registers an authenticated transport and greets it with the
// current online list and room snapshot.
func (o *Orchestrator) Attach(ctx context.Context, identity domain.Identity, sig core.SignalConnection) (*core.Connection, error) {
	c := core.NewConnection(o.newID(), identity, sig, o.now())
	if err := o.Presence.Register(ctx, c); err != nil {
		return nil, err
	}
	o.hello(c)
	log.Info().Str("module", "orch").Str("cid", string(c.ID)).Str("identity", string(c.Key())).Msg("connection attached")
	return c, nil
}

// OnDisconnect unwinds everything the connection accumulated: its room seat
// first, then its presence. A join racing the unwind is refused at every
// step. Safe to call more than once.
func (o *Orchestrator) OnDisconnect(ctx context.Context, cid domain.ConnectionID) {
	if room, ok := o.Rooms.LeaveCurrent(cid); ok {
		log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(room)).Msg("left room on disconnect")
	}
	o.Presence.Unregister(ctx, cid)
	o.Rooms.Forget(cid)
}

func (o *Orchestrator) hello(c *core.Connection) {
	f, err := core.Encode(core.HelloFrame{
		Type:         core.TypeHello,
		ConnectionID: c.ID,
		Identity:     c.Key(),
		Online:       o.Presence.Online(),
		Rooms:        o.Rooms.Snapshot(),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode hello")
		return
	}
	_ = o.Registry.Send(c.ID, f)
}

// LoadRooms reads the voice room names from the channel store. Invalid names
// are skipped; an empty result falls back to domain.DefaultRooms.
func LoadRooms(ctx context.Context, store core.ChannelStore) ([]domain.RoomName, error) {
	names, err := store.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	rooms := make([]domain.RoomName, 0, len(names))
	for _, name := range names {
		if !name.Valid() {
			log.Warn().Str("module", "orch").Str("room", string(name)).Msg("skipping invalid channel name")
			continue
		}
		rooms = append(rooms, name)
	}
	if len(rooms) == 0 {
		return slices.Clone(domain.DefaultRooms), nil
	}
	return rooms, nil
}
