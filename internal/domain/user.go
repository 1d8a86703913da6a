// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"
)

const MaxUsernameLen = 32

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// UserID is the persistent key of an account in the user store.
type UserID int64

// IdentityKey is the public key other clients address an identity by.
// It is the account's unique username.
type IdentityKey string

// Identity is read-only to the realtime core; the user store owns it.
type Identity struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Banned   bool   `json:"-"`
}

func (i Identity) Key() IdentityKey { return IdentityKey(i.Username) }

// Session is a login session issued by the auth routes.
type Session struct {
	Token     string
	UserID    UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
