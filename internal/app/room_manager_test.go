package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

type roomsFixture struct {
	reg   *Registry
	pres  *Presence
	rooms *RoomManager
}

func newRoomsFixture() *roomsFixture {
	reg := NewRegistry(nil)
	return &roomsFixture{
		reg:   reg,
		pres:  NewPresence(reg, nil, 0),
		rooms: NewRoomManager(reg, domain.DefaultRooms),
	}
}

func (f *roomsFixture) connect(t *testing.T, cid string, uid int64, name string) (*core.Connection, *fakeSignal) {
	t.Helper()
	c, sig := newConn(cid, uid, name)
	if err := f.pres.Register(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	return c, sig
}

func memberIDs(ms []domain.Member) []domain.ConnectionID {
	out := make([]domain.ConnectionID, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ConnectionID)
	}
	return out
}

func TestRoomManager_JoinMovesBetweenRooms(t *testing.T) {
	f := newRoomsFixture()
	a, asig := f.connect(t, "a", 1, "alice")
	_, bsig := f.connect(t, "b", 2, "bob")

	if err := f.rooms.Join(a, "general"); err != nil {
		t.Fatal(err)
	}
	if err := f.rooms.Join(a, "gaming"); err != nil {
		t.Fatal(err)
	}

	snap := lastSnapshot(t, bsig)
	if len(snap["general"]) != 0 {
		t.Errorf("general should be empty, got %v", snap["general"])
	}
	if ids := memberIDs(snap["gaming"]); len(ids) != 1 || ids[0] != "a" {
		t.Errorf("gaming = %v", ids)
	}
	if len(snap) != len(domain.DefaultRooms) {
		t.Errorf("snapshot should list every room, got %d", len(snap))
	}
	if room, _ := f.rooms.RoomOf("a"); room != "gaming" {
		t.Errorf("RoomOf = %s", room)
	}
	if got := len(asig.ofType(t, core.TypeRoomSnapshot)); got != 2 {
		t.Errorf("joiner should get a snapshot per transition, got %d", got)
	}
}

func TestRoomManager_RejoinKeepsPosition(t *testing.T) {
	f := newRoomsFixture()
	a, _ := f.connect(t, "a", 1, "alice")
	b, bsig := f.connect(t, "b", 2, "bob")

	_ = f.rooms.Join(a, "music")
	_ = f.rooms.Join(b, "music")
	bsig.reset()
	_ = f.rooms.Join(a, "music")

	snap := lastSnapshot(t, bsig)
	ids := memberIDs(snap["music"])
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("music = %v, want [a b]", ids)
	}
}

func TestRoomManager_UnknownRoom(t *testing.T) {
	f := newRoomsFixture()
	a, asig := f.connect(t, "a", 1, "alice")
	asig.reset()

	if err := f.rooms.Join(a, "nowhere"); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
	if got := asig.ofType(t, core.TypeRoomSnapshot); len(got) != 0 {
		t.Error("unknown room must not broadcast")
	}
}

func TestRoomManager_LeaveOnlyFromCurrentRoom(t *testing.T) {
	f := newRoomsFixture()
	a, asig := f.connect(t, "a", 1, "alice")
	_ = f.rooms.Join(a, "general")
	asig.reset()

	if f.rooms.Leave("a", "gaming") {
		t.Error("leave of a room not occupied should report false")
	}
	if len(asig.ofType(t, core.TypeRoomSnapshot)) != 0 {
		t.Error("ignored leave must not broadcast")
	}
	if !f.rooms.Leave("a", "general") {
		t.Error("leave should succeed")
	}
	if _, in := f.rooms.RoomOf("a"); in {
		t.Error("a should be in no room")
	}
	if snap := lastSnapshot(t, asig); len(snap["general"]) != 0 {
		t.Error("general should be empty")
	}
}

func TestRoomManager_LeaveCurrentOnDisconnect(t *testing.T) {
	f := newRoomsFixture()
	a, _ := f.connect(t, "a", 1, "alice")
	_, bsig := f.connect(t, "b", 2, "bob")
	_ = f.rooms.Join(a, "admin")

	room, ok := f.rooms.LeaveCurrent("a")
	if !ok || room != "admin" {
		t.Fatalf("LeaveCurrent = %s %v", room, ok)
	}
	if _, ok := f.rooms.LeaveCurrent("a"); ok {
		t.Error("second LeaveCurrent should be a no-op")
	}
	if snap := lastSnapshot(t, bsig); len(snap["admin"]) != 0 {
		t.Error("admin should be empty")
	}
}

func TestRoomManager_JoinAfterUnregisterIgnored(t *testing.T) {
	f := newRoomsFixture()
	a, _ := f.connect(t, "a", 1, "alice")
	f.pres.Unregister(context.Background(), "a")

	if err := f.rooms.Join(a, "general"); !errors.Is(err, ErrNoSuchPeer) {
		t.Fatalf("expected ErrNoSuchPeer, got %v", err)
	}
	if snap := f.rooms.Snapshot(); len(snap["general"]) != 0 {
		t.Error("unregistered connection must not hold a seat")
	}
}

func TestRoomManager_SameIdentityTwoConnections(t *testing.T) {
	f := newRoomsFixture()
	a1, _ := f.connect(t, "a1", 1, "alice")
	a2, _ := f.connect(t, "a2", 1, "alice")
	_ = f.rooms.Join(a1, "general")
	_ = f.rooms.Join(a2, "music")

	snap := f.rooms.Snapshot()
	if len(snap["general"]) != 1 || len(snap["music"]) != 1 {
		t.Errorf("each connection holds its own seat: %v", snap)
	}
}

func TestRoomManager_JoinLeaveRoundTrip(t *testing.T) {
	f := newRoomsFixture()
	b, _ := f.connect(t, "b", 2, "bob")
	_ = f.rooms.Join(b, "general")
	a, asig := f.connect(t, "a", 1, "alice")
	before := f.rooms.Snapshot()

	_ = f.rooms.Join(a, "general")
	if !f.rooms.Leave("a", "general") {
		t.Fatal("leave should succeed")
	}
	after := f.rooms.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("snapshot changed: before %v after %v", before, after)
	}

	asig.reset()
	if f.rooms.Leave("a", "general") || f.rooms.Leave("a", "general") {
		t.Error("repeated leave should be a no-op")
	}
	if len(asig.ofType(t, core.TypeRoomSnapshot)) != 0 {
		t.Error("repeated leave must not broadcast")
	}
}

func TestRoomManager_JoinRefusedWhileLeaving(t *testing.T) {
	f := newRoomsFixture()
	a, _ := f.connect(t, "a", 1, "alice")

	if err := f.rooms.Join(a, "general"); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.rooms.LeaveCurrent(a.ID); !ok {
		t.Fatal("alice should have left general")
	}
	// still bound in the registry at this point
	if err := f.rooms.Join(a, "general"); !errors.Is(err, ErrNoSuchPeer) {
		t.Fatalf("join while leaving = %v, want ErrNoSuchPeer", err)
	}

	f.pres.Unregister(context.Background(), a.ID)
	f.rooms.Forget(a.ID)
	if err := f.rooms.Join(a, "general"); !errors.Is(err, ErrNoSuchPeer) {
		t.Fatalf("join after unbind = %v, want ErrNoSuchPeer", err)
	}
	if got := f.rooms.Snapshot()["general"]; len(got) != 0 {
		t.Fatalf("general = %v, want empty", memberIDs(got))
	}
}
