package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Authenticator resolves the session token a connection presents into an
// Identity. It performs lookups only and never creates connection state.
type Authenticator struct {
	store core.SessionStore
	now   func() time.Time
}

func NewAuthenticator(store core.SessionStore) *Authenticator {
	return &Authenticator{store: store, now: time.Now}
}

// Authenticate returns an error matching ErrAuthRejected for missing, unknown,
// expired or banned credentials. Any other error is a store failure.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, ErrNoCredentials
	}

	sess, err := a.store.LookupSession(ctx, token)
	if errors.Is(err, core.ErrNotFound) {
		return domain.Identity{}, ErrInvalidSession
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("lookup session: %w", err)
	}
	if sess.Expired(a.now()) {
		log.Debug().Str("module", "app.auth").Int64("user_id", int64(sess.UserID)).Msg("expired session")
		return domain.Identity{}, ErrInvalidSession
	}

	identity, err := a.store.LookupIdentity(ctx, sess.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return domain.Identity{}, ErrInvalidSession
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("lookup identity: %w", err)
	}
	if identity.Banned {
		log.Info().Str("module", "app.auth").Str("identity", identity.Username).Msg("banned identity refused")
		return domain.Identity{}, ErrAccessDenied
	}
	return identity, nil
}
