package app

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

// fakeSignal records frames instead of writing them to a socket.
type fakeSignal struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (f *fakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrClosed
	}
	if f.full {
		return core.ErrBackpressure
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSignal) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSignal) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// ofType decodes every recorded frame with the given type into maps.
func (f *fakeSignal) ofType(t *testing.T, typ string) []map[string]json.RawMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]json.RawMessage
	for _, fr := range f.frames {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(fr, &m); err != nil {
			t.Fatalf("frame is not json: %s", fr)
		}
		var got string
		_ = json.Unmarshal(m["type"], &got)
		if got == typ {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSignal) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

func newConn(cid string, uid int64, username string) (*core.Connection, *fakeSignal) {
	sig := &fakeSignal{}
	identity := domain.Identity{ID: domain.UserID(uid), Username: username}
	return core.NewConnection(domain.ConnectionID(cid), identity, sig, time.UnixMilli(1_700_000_000_000)), sig
}

func lastSnapshot(t *testing.T, sig *fakeSignal) core.Snapshot {
	t.Helper()
	frames := sig.ofType(t, core.TypeRoomSnapshot)
	if len(frames) == 0 {
		t.Fatal("no room snapshot received")
	}
	var snap core.Snapshot
	if err := json.Unmarshal(frames[len(frames)-1]["rooms"], &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func identityOf(t *testing.T, m map[string]json.RawMessage) domain.IdentityKey {
	t.Helper()
	var key domain.IdentityKey
	if err := json.Unmarshal(m["identity"], &key); err != nil {
		t.Fatalf("decode identity: %v", err)
	}
	return key
}
