package core

import (
	"time"

	"github.com/dkeye/huddle/internal/domain"
)

// Connection is one authenticated transport session. The Coordinator owns it;
// the room a connection occupies is tracked by the voice room registry.
type Connection struct {
	ID          domain.ConnectionID
	Identity    domain.Identity
	ConnectedAt time.Time

	signal SignalConnection
}

func NewConnection(id domain.ConnectionID, identity domain.Identity, sig SignalConnection, at time.Time) *Connection {
	return &Connection{
		ID:          id,
		Identity:    identity,
		ConnectedAt: at,
		signal:      sig,
	}
}

func (c *Connection) Key() domain.IdentityKey { return c.Identity.Key() }
func (c *Connection) Signal() SignalConnection { return c.signal }

func (c *Connection) Member() domain.Member {
	return domain.NewMember(c.ID, c.Identity)
}
