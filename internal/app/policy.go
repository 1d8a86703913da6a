package app

import "github.com/dkeye/huddle/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose outbound queue is full.
type Policy interface {
	OnBackPressure(conn *core.Connection) BackpressureAction
}

// SimplePolicy closes slow connections. Closing ends the read loop, which
// unwinds the connection like any other disconnect.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(*core.Connection) BackpressureAction {
	return KickMember
}
