package domain

import "regexp"

type RoomName string

// channel names as accepted by the channel admin routes
var roomNamePattern = regexp.MustCompile(`^[a-z0-9_-]{2,32}$`)

func (n RoomName) Valid() bool {
	return roomNamePattern.MatchString(string(n))
}

// DefaultRooms are inserted into an empty channel table.
var DefaultRooms = []RoomName{"admin", "general", "gaming", "music"}
