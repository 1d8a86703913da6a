package domain

import "time"

// ConnectionID is unique per transport session.
type ConnectionID string

// Member is one connection's seat in a voice room.
// No transport or lifecycle logic here.
type Member struct {
	ConnectionID ConnectionID `json:"id"`
	UserID       UserID       `json:"user_id"`
	Username     string       `json:"username"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(cid ConnectionID, identity Identity) Member {
	return Member{ConnectionID: cid, UserID: identity.ID, Username: identity.Username}
}

// PresenceSession is the audit row written for every authenticated connection.
type PresenceSession struct {
	UserID         UserID
	ConnectionID   ConnectionID
	ConnectedAt    time.Time
	DisconnectedAt *time.Time
}
