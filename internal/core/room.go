package core

import (
	"slices"

	"github.com/dkeye/huddle/internal/domain"
)

// Room is the ordered member set of one voice room. Order is join order.
// It is not safe for concurrent use; the room registry serializes access.
type Room struct {
	Name    domain.RoomName
	members []domain.Member
}

func NewRoom(name domain.RoomName) *Room {
	return &Room{Name: name}
}

func (r *Room) index(cid domain.ConnectionID) int {
	return slices.IndexFunc(r.members, func(m domain.Member) bool {
		return m.ConnectionID == cid
	})
}

// Add appends m unless its connection is already a member.
func (r *Room) Add(m domain.Member) bool {
	if r.index(m.ConnectionID) >= 0 {
		return false
	}
	r.members = append(r.members, m)
	return true
}

func (r *Room) Remove(cid domain.ConnectionID) bool {
	i := r.index(cid)
	if i < 0 {
		return false
	}
	r.members = slices.Delete(r.members, i, i+1)
	return true
}

func (r *Room) Contains(cid domain.ConnectionID) bool {
	return r.index(cid) >= 0
}

func (r *Room) Len() int { return len(r.members) }

// Members returns a copy safe to hand outside the registry lock.
func (r *Room) Members() []domain.Member {
	return append([]domain.Member{}, r.members...)
}

// ConnectionIDs lists the members' connections in join order.
func (r *Room) ConnectionIDs() []domain.ConnectionID {
	out := make([]domain.ConnectionID, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m.ConnectionID)
	}
	return out
}
