package core

//go:generate mockgen -source=interfaces.go -destination=mocks/store_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/huddle/internal/domain"
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// SessionStore is the slice of the persistent store the connection gate reads.
type SessionStore interface {
	LookupSession(ctx context.Context, token string) (domain.Session, error)
	LookupIdentity(ctx context.Context, id domain.UserID) (domain.Identity, error)
}

// ChannelStore lists the channel names voice rooms are seeded from.
type ChannelStore interface {
	ListChannels(ctx context.Context) ([]domain.RoomName, error)
}

// PresenceLog is the audit trail of connect/disconnect timestamps.
// Rows are never deleted, only closed.
type PresenceLog interface {
	OpenPresence(ctx context.Context, s domain.PresenceSession) error
	// ClosePresence sets disconnectedAt on the open row for cid. Closing an
	// already closed row is a no-op.
	ClosePresence(ctx context.Context, cid domain.ConnectionID, at time.Time) error
}
