package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dkeye/huddle/internal/core"
)

func TestRelay_DeliversToLatestConnection(t *testing.T) {
	f := newRoomsFixture()
	relay := NewRelay(f.reg, f.rooms)
	_, _ = f.connect(t, "a", 1, "alice")
	_, oldSig := f.connect(t, "b1", 2, "bob")
	_, newSig := f.connect(t, "b2", 2, "bob")

	payload := json.RawMessage(`{"sdp":"v=0"}`)
	if err := relay.RelayOffer(Signal{To: "bob", From: "alice", Payload: payload, Room: "general"}); err != nil {
		t.Fatal(err)
	}
	if len(oldSig.ofType(t, core.TypeOffer)) != 0 {
		t.Error("older connection must not receive the offer")
	}
	got := newSig.ofType(t, core.TypeOffer)
	if len(got) != 1 {
		t.Fatalf("expected one offer, got %d", len(got))
	}
	if string(got[0]["payload"]) != string(payload) {
		t.Errorf("payload altered: %s", got[0]["payload"])
	}
	if identityOf(t, map[string]json.RawMessage{"identity": got[0]["from"]}) != "alice" {
		t.Errorf("from = %s", got[0]["from"])
	}
}

func TestRelay_AnswerAndCandidateKinds(t *testing.T) {
	f := newRoomsFixture()
	relay := NewRelay(f.reg, f.rooms)
	_, sig := f.connect(t, "b", 2, "bob")

	s := Signal{To: "bob", From: "alice", Payload: json.RawMessage(`{"candidate":"c"}`), Room: "general"}
	if err := relay.RelayAnswer(s); err != nil {
		t.Fatal(err)
	}
	if err := relay.RelayICECandidate(s); err != nil {
		t.Fatal(err)
	}
	if len(sig.ofType(t, core.TypeAnswer)) != 1 || len(sig.ofType(t, core.TypeICECandidate)) != 1 {
		t.Error("expected one answer and one ice_candidate")
	}
}

func TestRelay_NoSuchPeer(t *testing.T) {
	f := newRoomsFixture()
	relay := NewRelay(f.reg, f.rooms)
	err := relay.RelayOffer(Signal{To: "ghost", From: "alice", Payload: json.RawMessage(`{}`), Room: "general"})
	if !errors.Is(err, ErrNoSuchPeer) {
		t.Fatalf("expected ErrNoSuchPeer, got %v", err)
	}
}

func TestRelay_Malformed(t *testing.T) {
	f := newRoomsFixture()
	relay := NewRelay(f.reg, f.rooms)
	_, _ = f.connect(t, "b", 2, "bob")

	cases := map[string]Signal{
		"no recipient": {From: "alice", Payload: json.RawMessage(`{}`), Room: "general"},
		"no room":      {To: "bob", From: "alice", Payload: json.RawMessage(`{}`)},
		"no payload":   {To: "bob", From: "alice", Room: "general"},
		"null payload": {To: "bob", From: "alice", Payload: json.RawMessage(`null`), Room: "general"},
		"bad json":     {To: "bob", From: "alice", Payload: json.RawMessage(`{`), Room: "general"},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			if err := relay.RelayOffer(s); !errors.Is(err, ErrMalformedSignal) {
				t.Fatalf("expected ErrMalformedSignal, got %v", err)
			}
		})
	}
}

func TestRelay_SpeakingReachesRoomMembersOnly(t *testing.T) {
	f := newRoomsFixture()
	relay := NewRelay(f.reg, f.rooms)
	a, asig := f.connect(t, "a", 1, "alice")
	b, bsig := f.connect(t, "b", 2, "bob")
	_, csig := f.connect(t, "c", 3, "carol")
	_ = f.rooms.Join(a, "general")
	_ = f.rooms.Join(b, "general")

	n, err := relay.SpeakingStart(a, "general")
	if err != nil || n != 2 {
		t.Fatalf("SpeakingStart: n=%d err=%v", n, err)
	}
	for name, sig := range map[string]*fakeSignal{"alice": asig, "bob": bsig} {
		got := sig.ofType(t, core.TypeSpeakingStart)
		if len(got) != 1 || identityOf(t, got[0]) != "alice" {
			t.Errorf("%s: expected one speaking_start from alice", name)
		}
	}
	if len(csig.ofType(t, core.TypeSpeakingStart)) != 0 {
		t.Error("non-member received speaking_start")
	}

	if _, err := relay.SpeakingStop(a, "general"); err != nil {
		t.Fatal(err)
	}
	if len(bsig.ofType(t, core.TypeSpeakingStop)) != 1 {
		t.Error("bob should receive speaking_stop")
	}
	if _, err := relay.SpeakingStart(a, "nowhere"); !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("expected ErrUnknownRoom, got %v", err)
	}
	if _, err := relay.SpeakingStart(a, ""); !errors.Is(err, ErrMalformedSignal) {
		t.Errorf("expected ErrMalformedSignal, got %v", err)
	}
}
