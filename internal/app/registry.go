package app

import (
	"errors"
	"slices"
	"sync"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats/backpressure to callers.
type PublishResult struct {
	SendTo  int
	Dropped []*core.Connection
}

// Registry is the connection table: every registered connection keyed by id,
// plus an index from identity key to that identity's live connections in
// registration order.
type Registry struct {
	mu         sync.RWMutex
	conns      map[domain.ConnectionID]*core.Connection
	byIdentity map[domain.IdentityKey][]domain.ConnectionID

	policy Policy
}

func NewRegistry(policy Policy) *Registry {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Registry{
		conns:      make(map[domain.ConnectionID]*core.Connection),
		byIdentity: make(map[domain.IdentityKey][]domain.ConnectionID),
		policy:     policy,
	}
}

// Bind adds c to the table. first reports whether c is the identity's only
// live connection after the call.
func (r *Registry) Bind(c *core.Connection) (first bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[c.ID]; ok {
		return false, ErrAlreadyRegistered
	}
	r.conns[c.ID] = c
	key := c.Key()
	r.byIdentity[key] = append(r.byIdentity[key], c.ID)
	log.Info().Str("module", "app.registry").Str("cid", string(c.ID)).Str("identity", string(key)).Msg("bound connection")
	return len(r.byIdentity[key]) == 1, nil
}

// Unbind removes cid. ok is false when cid was not bound, so a repeated
// disconnect is a no-op. last reports whether the identity has no live
// connection left.
func (r *Registry) Unbind(cid domain.ConnectionID) (c *core.Connection, last bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok = r.conns[cid]
	if !ok {
		return nil, false, false
	}
	delete(r.conns, cid)
	key := c.Key()
	rest := slices.DeleteFunc(r.byIdentity[key], func(id domain.ConnectionID) bool { return id == cid })
	if len(rest) == 0 {
		delete(r.byIdentity, key)
		last = true
	} else {
		r.byIdentity[key] = rest
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("identity", string(key)).Bool("last", last).Msg("unbound connection")
	return c, last, true
}

func (r *Registry) Get(cid domain.ConnectionID) (*core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[cid]
	return c, ok
}

// Latest returns the most recently registered live connection of key.
func (r *Registry) Latest(key domain.IdentityKey) (*core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byIdentity[key]
	if len(ids) == 0 {
		return nil, false
	}
	c, ok := r.conns[ids[len(ids)-1]]
	return c, ok
}

func (r *Registry) ConnectionsOf(key domain.IdentityKey) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byIdentity[key])
}

// OnlineKeys lists identities with at least one live connection, sorted.
func (r *Registry) OnlineKeys() []domain.IdentityKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.IdentityKey, 0, len(r.byIdentity))
	for key := range r.byIdentity {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Send delivers f to one connection.
func (r *Registry) Send(cid domain.ConnectionID, f core.Frame) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[cid]
	if !ok {
		return ErrNoSuchPeer
	}
	if !r.deliver(c, f) {
		return ErrNoSuchPeer
	}
	return nil
}

// Broadcast delivers f to every registered connection.
func (r *Registry) Broadcast(f core.Frame) PublishResult {
	return r.BroadcastExcept("", f)
}

// BroadcastExcept delivers f to every registered connection but skip.
func (r *Registry) BroadcastExcept(skip domain.ConnectionID, f core.Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for id, c := range r.conns {
		if id == skip {
			continue
		}
		if r.deliver(c, f) {
			res.SendTo++
		} else {
			res.Dropped = append(res.Dropped, c)
		}
	}
	log.Debug().Str("module", "app.registry").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// Multicast delivers f to the listed connections that are still registered.
func (r *Registry) Multicast(cids []domain.ConnectionID, f core.Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for _, cid := range cids {
		c, ok := r.conns[cid]
		if !ok {
			continue
		}
		if r.deliver(c, f) {
			res.SendTo++
		} else {
			res.Dropped = append(res.Dropped, c)
		}
	}
	return res
}

// deliver must be called with r.mu held. Closing a connection only touches
// the transport; the unwind runs later from the connection's read loop.
func (r *Registry) deliver(c *core.Connection, f core.Frame) bool {
	if err := c.Signal().TrySend(f); err != nil {
		if !errors.Is(err, core.ErrBackpressure) {
			return false
		}
		switch r.policy.OnBackPressure(c) {
		case KickMember:
			log.Warn().Err(err).Str("module", "app.registry").Str("cid", string(c.ID)).Msg("slow connection, closing")
			c.Signal().Close()
		case DropFrame, NoAction:
		}
		return false
	}
	return true
}
