package app

import (
	"errors"
	"fmt"
)

// ErrAuthRejected matches every reason a connection attempt is refused.
var ErrAuthRejected = errors.New("auth rejected")

var (
	ErrNoCredentials  = fmt.Errorf("%w: no credentials", ErrAuthRejected)
	ErrInvalidSession = fmt.Errorf("%w: invalid session", ErrAuthRejected)
	ErrAccessDenied   = fmt.Errorf("%w: access denied", ErrAuthRejected)
)

var (
	ErrUnknownRoom       = errors.New("unknown room")
	ErrNoSuchPeer        = errors.New("no such peer")
	ErrMalformedSignal   = errors.New("malformed signal")
	ErrAlreadyRegistered = errors.New("connection already registered")
)

// RejectReason is the short reason shown to a refused client.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "no credentials"
	case errors.Is(err, ErrAccessDenied):
		return "access denied"
	case errors.Is(err, ErrInvalidSession):
		return "invalid session"
	default:
		return "unavailable"
	}
}
