package core

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/domain"
)

// Outbound frame types.
const (
	TypeHello           = "hello"
	TypePresenceOnline  = "presence_online"
	TypePresenceOffline = "presence_offline"
	TypeRoomSnapshot    = "room_snapshot"
	TypeOffer           = "offer"
	TypeAnswer          = "answer"
	TypeICECandidate    = "ice_candidate"
	TypeSpeakingStart   = "speaking_start"
	TypeSpeakingStop    = "speaking_stop"
	TypePong            = "pong"
	TypeWhoAmI          = "whoami"
	TypeError           = "error"
)

// Snapshot is the full room → members map. Every seeded room is present,
// empty rooms map to an empty list.
type Snapshot map[domain.RoomName][]domain.Member

type PresenceFrame struct {
	Type     string             `json:"type"`
	Identity domain.IdentityKey `json:"identity"`
}

type SnapshotFrame struct {
	Type  string   `json:"type"`
	Rooms Snapshot `json:"rooms"`
}

type SignalFrame struct {
	Type    string             `json:"type"`
	From    domain.IdentityKey `json:"from"`
	Room    domain.RoomName    `json:"room"`
	Payload json.RawMessage    `json:"payload"`
}

type SpeakingFrame struct {
	Type     string             `json:"type"`
	Identity domain.IdentityKey `json:"identity"`
	Room     domain.RoomName    `json:"room"`
}

type HelloFrame struct {
	Type         string               `json:"type"`
	ConnectionID domain.ConnectionID  `json:"connection_id"`
	Identity     domain.IdentityKey   `json:"identity"`
	Online       []domain.IdentityKey `json:"online"`
	Rooms        Snapshot             `json:"rooms"`
}

type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
