package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "huddle.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huddle.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := first.CreateUser(context.Background(), "alice", false); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_ = first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, err := second.LookupIdentity(context.Background(), 1); err != nil {
		t.Fatalf("identity lost after reopen: %v", err)
	}
}

func TestLookupSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	expires := time.UnixMilli(1_900_000_000_000)
	if err := store.CreateSession(ctx, domain.Session{Token: "tok", UserID: alice.ID, ExpiresAt: expires}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := store.CreateSession(ctx, domain.Session{Token: "forever", UserID: alice.ID}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	sess, err := store.LookupSession(ctx, "tok")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if sess.UserID != alice.ID || !sess.ExpiresAt.Equal(expires) {
		t.Errorf("unexpected session %+v", sess)
	}

	sess, err = store.LookupSession(ctx, "forever")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !sess.ExpiresAt.IsZero() {
		t.Errorf("expected no expiry, got %v", sess.ExpiresAt)
	}

	if _, err := store.LookupSession(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bob, err := store.CreateUser(ctx, "bob", true)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	got, err := store.LookupIdentity(ctx, bob.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Username != "bob" || !got.Banned {
		t.Errorf("unexpected identity %+v", got)
	}
	if _, err := store.LookupIdentity(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.CreateUser(ctx, "bob", false); err == nil {
		t.Error("expected duplicate username to fail")
	}
}

func TestSeedDefaultChannels(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seeded, err := store.SeedDefaultChannels(ctx, domain.DefaultRooms)
	if err != nil || !seeded {
		t.Fatalf("first seed: seeded=%v err=%v", seeded, err)
	}
	seeded, err = store.SeedDefaultChannels(ctx, domain.DefaultRooms)
	if err != nil || seeded {
		t.Fatalf("second seed: seeded=%v err=%v", seeded, err)
	}
	if err := store.CreateChannel(ctx, "lounge"); err != nil {
		t.Fatalf("create channel: %v", err)
	}
	if err := store.CreateChannel(ctx, "Bad Name"); err == nil {
		t.Error("expected invalid channel name to fail")
	}

	got, err := store.ListChannels(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []domain.RoomName{"admin", "gaming", "general", "lounge", "music"}
	if !slices.Equal(got, want) {
		t.Errorf("channels = %v, want %v", got, want)
	}
}

func TestPresenceLog(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)

	if err := store.OpenPresence(ctx, domain.PresenceSession{UserID: 3, ConnectionID: "c1", ConnectedAt: start}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.OpenPresence(ctx, domain.PresenceSession{UserID: 3, ConnectionID: "c1", ConnectedAt: start}); err == nil {
		t.Error("expected a second open row for the same connection to fail")
	}
	if err := store.ClosePresence(ctx, "c1", start.Add(time.Minute)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.ClosePresence(ctx, "c1", start.Add(time.Hour)); err != nil {
		t.Fatalf("second close: %v", err)
	}

	rows, err := store.PresenceHistory(ctx, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].DisconnectedAt == nil || !rows[0].DisconnectedAt.Equal(start.Add(time.Minute)) {
		t.Errorf("unexpected disconnect stamp %v", rows[0].DisconnectedAt)
	}
}
