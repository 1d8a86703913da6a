package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Presence tracks which identities are online. An identity is online while it
// has at least one registered connection; online and offline are broadcast
// only on the 0→1 and 1→0 transitions of that count.
type Presence struct {
	// mu orders registry changes with the broadcasts they cause, so an
	// identity's online/offline events never reach clients out of order.
	mu  sync.Mutex
	reg *Registry

	store   core.PresenceLog
	timeout time.Duration
	now     func() time.Time
}

func NewPresence(reg *Registry, store core.PresenceLog, timeout time.Duration) *Presence {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Presence{
		reg:     reg,
		store:   store,
		timeout: timeout,
		now:     time.Now,
	}
}

// Register binds c and persists its PresenceSession row. A persistence
// failure is logged and does not fail the registration. The online event
// skips c itself; its hello already lists it.
func (p *Presence) Register(ctx context.Context, c *core.Connection) error {
	p.mu.Lock()
	first, err := p.reg.Bind(c)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if first {
		p.broadcast(core.TypePresenceOnline, c.Key(), c.ID)
	}
	p.mu.Unlock()

	row := domain.PresenceSession{
		UserID:       c.Identity.ID,
		ConnectionID: c.ID,
		ConnectedAt:  c.ConnectedAt,
	}
	p.persist(ctx, c.ID, "open", func(ctx context.Context) error {
		return p.store.OpenPresence(ctx, row)
	})
	return nil
}

// Unregister removes cid and closes its PresenceSession row. Calling it again
// for the same connection does nothing.
func (p *Presence) Unregister(ctx context.Context, cid domain.ConnectionID) {
	p.mu.Lock()
	c, last, ok := p.reg.Unbind(cid)
	if !ok {
		p.mu.Unlock()
		return
	}
	if last {
		p.broadcast(core.TypePresenceOffline, c.Key(), "")
	}
	p.mu.Unlock()

	at := p.now()
	p.persist(ctx, cid, "close", func(ctx context.Context) error {
		return p.store.ClosePresence(ctx, cid, at)
	})
}

func (p *Presence) Online() []domain.IdentityKey {
	return p.reg.OnlineKeys()
}

func (p *Presence) IsOnline(key domain.IdentityKey) bool {
	return len(p.reg.ConnectionsOf(key)) > 0
}

func (p *Presence) broadcast(typ string, key domain.IdentityKey, skip domain.ConnectionID) {
	f, err := core.Encode(core.PresenceFrame{Type: typ, Identity: key})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode presence frame")
		return
	}
	p.reg.BroadcastExcept(skip, f)
	log.Info().Str("module", "app.presence").Str("identity", string(key)).Str("event", typ).Msg("presence changed")
}

// persist runs the audit write detached from the connection's cancellation;
// disconnect writes happen after the connection context is already done.
func (p *Presence) persist(ctx context.Context, cid domain.ConnectionID, op string, fn func(context.Context) error) {
	if p.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error().Err(err).Str("module", "app.presence").Str("cid", string(cid)).Str("op", op).Msg("presence log write failed")
	}
}
