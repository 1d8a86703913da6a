package app

import (
	"slices"
	"sync"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManager is the voice room registry. Rooms are fixed at construction;
// membership is in memory only. A connection occupies at most one room.
//
// Every transition mutates membership and broadcasts the resulting snapshot
// under one lock hold, so snapshots reach clients in transition order and
// never show a connection in two rooms.
type RoomManager struct {
	mu    sync.Mutex
	reg   *Registry
	rooms map[domain.RoomName]*core.Room
	seats map[domain.ConnectionID]domain.RoomName

	// leaving holds connections between LeaveCurrent and Forget. Their
	// registry entry may still exist, so Join must refuse them here.
	leaving map[domain.ConnectionID]struct{}
}

func NewRoomManager(reg *Registry, names []domain.RoomName) *RoomManager {
	m := &RoomManager{
		reg:     reg,
		rooms:   make(map[domain.RoomName]*core.Room, len(names)),
		seats:   make(map[domain.ConnectionID]domain.RoomName),
		leaving: make(map[domain.ConnectionID]struct{}),
	}
	for _, name := range names {
		if _, ok := m.rooms[name]; ok {
			continue
		}
		m.rooms[name] = core.NewRoom(name)
	}
	log.Info().Str("module", "app.rooms").Int("rooms", len(m.rooms)).Msg("voice rooms seeded")
	return m
}

// Join moves c into name, leaving its current room first. Joining the room
// c already occupies keeps its position and re-broadcasts the snapshot.
func (m *RoomManager) Join(c *core.Connection, name domain.RoomName) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	to, ok := m.rooms[name]
	if !ok {
		return ErrUnknownRoom
	}
	// the connection may be unwinding while this event was queued
	if _, gone := m.leaving[c.ID]; gone {
		return ErrNoSuchPeer
	}
	if _, ok := m.reg.Get(c.ID); !ok {
		return ErrNoSuchPeer
	}
	if cur, in := m.seats[c.ID]; in && cur != name {
		m.rooms[cur].Remove(c.ID)
		log.Info().Str("module", "app.rooms").Str("cid", string(c.ID)).Str("from_room", string(cur)).Msg("left room")
	}
	to.Add(c.Member())
	m.seats[c.ID] = name
	log.Info().Str("module", "app.rooms").Str("cid", string(c.ID)).Str("room", string(name)).Msg("joined room")

	m.broadcastLocked()
	return nil
}

// Leave removes cid from name. It reports false, and broadcasts nothing,
// when cid is not in name.
func (m *RoomManager) Leave(cid domain.ConnectionID, name domain.RoomName) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, in := m.seats[cid]; !in || cur != name {
		return false
	}
	m.removeLocked(cid, name)
	m.broadcastLocked()
	return true
}

// LeaveCurrent removes cid from whichever room it occupies and refuses
// further joins for it until Forget.
func (m *RoomManager) LeaveCurrent(cid domain.ConnectionID) (domain.RoomName, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaving[cid] = struct{}{}
	cur, in := m.seats[cid]
	if !in {
		return "", false
	}
	m.removeLocked(cid, cur)
	m.broadcastLocked()
	return cur, true
}

// Forget drops the leaving mark of cid. Call it once cid is unbound from
// the registry, which keeps refusing its joins from then on.
func (m *RoomManager) Forget(cid domain.ConnectionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leaving, cid)
}

func (m *RoomManager) RoomOf(cid domain.ConnectionID) (domain.RoomName, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.seats[cid]
	return name, ok
}

func (m *RoomManager) Has(name domain.RoomName) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[name]
	return ok
}

// Rooms lists the room names, sorted.
func (m *RoomManager) Rooms() []domain.RoomName {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RoomName, 0, len(m.rooms))
	for name := range m.rooms {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Snapshot returns the current room → members map.
func (m *RoomManager) Snapshot() core.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Fanout delivers f to the current members of name.
func (m *RoomManager) Fanout(name domain.RoomName, f core.Frame) (PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[name]
	if !ok {
		return PublishResult{}, ErrUnknownRoom
	}
	return m.reg.Multicast(room.ConnectionIDs(), f), nil
}

func (m *RoomManager) removeLocked(cid domain.ConnectionID, name domain.RoomName) {
	m.rooms[name].Remove(cid)
	delete(m.seats, cid)
	log.Info().Str("module", "app.rooms").Str("cid", string(cid)).Str("room", string(name)).Msg("left room")
}

func (m *RoomManager) snapshotLocked() core.Snapshot {
	out := make(core.Snapshot, len(m.rooms))
	for name, room := range m.rooms {
		out[name] = room.Members()
	}
	return out
}

func (m *RoomManager) broadcastLocked() {
	f, err := core.Encode(core.SnapshotFrame{Type: core.TypeRoomSnapshot, Rooms: m.snapshotLocked()})
	if err != nil {
		log.Error().Err(err).Str("module", "app.rooms").Msg("encode room snapshot")
		return
	}
	m.reg.Broadcast(f)
}
