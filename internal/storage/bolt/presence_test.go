package bolt_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dkeye/huddle/internal/domain"
	presencebolt "github.com/dkeye/huddle/internal/storage/bolt"
)

func openTestLog(t *testing.T) *presencebolt.PresenceLog {
	t.Helper()
	p, err := presencebolt.Open(filepath.Join(t.TempDir(), "presence.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestOpenAndClosePresence(t *testing.T) {
	p := openTestLog(t)
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)

	err := p.OpenPresence(ctx, domain.PresenceSession{UserID: 7, ConnectionID: "c1", ConnectedAt: start})
	if err != nil {
		t.Fatalf("OpenPresence: %v", err)
	}
	if err := p.ClosePresence(ctx, "c1", start.Add(time.Minute)); err != nil {
		t.Fatalf("ClosePresence: %v", err)
	}

	ps, ok, err := p.Get("c1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if ps.UserID != 7 || !ps.ConnectedAt.Equal(start) {
		t.Errorf("unexpected row %+v", ps)
	}
	if ps.DisconnectedAt == nil || !ps.DisconnectedAt.Equal(start.Add(time.Minute)) {
		t.Errorf("expected disconnect stamp, got %v", ps.DisconnectedAt)
	}
}

func TestClosePresence_SecondCloseKeepsFirstStamp(t *testing.T) {
	p := openTestLog(t)
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)

	_ = p.OpenPresence(ctx, domain.PresenceSession{UserID: 1, ConnectionID: "c1", ConnectedAt: start})
	_ = p.ClosePresence(ctx, "c1", start.Add(time.Second))
	if err := p.ClosePresence(ctx, "c1", start.Add(time.Hour)); err != nil {
		t.Fatalf("second ClosePresence: %v", err)
	}

	ps, _, _ := p.Get("c1")
	if !ps.DisconnectedAt.Equal(start.Add(time.Second)) {
		t.Errorf("stamp overwritten: %v", ps.DisconnectedAt)
	}
}

func TestClosePresence_UnknownIsNoop(t *testing.T) {
	p := openTestLog(t)
	if err := p.ClosePresence(context.Background(), "missing", time.Now()); err != nil {
		t.Fatalf("ClosePresence: %v", err)
	}
	if _, ok, _ := p.Get("missing"); ok {
		t.Error("row created for unknown connection")
	}
}

func TestOpenPresence_RejectsDuplicateOpen(t *testing.T) {
	p := openTestLog(t)
	ctx := context.Background()
	ps := domain.PresenceSession{UserID: 1, ConnectionID: "c1", ConnectedAt: time.Now()}

	if err := p.OpenPresence(ctx, ps); err != nil {
		t.Fatalf("OpenPresence: %v", err)
	}
	if err := p.OpenPresence(ctx, ps); !errors.Is(err, presencebolt.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
}
