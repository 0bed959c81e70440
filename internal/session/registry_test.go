package session

import (
	"testing"
	"time"

	"backgammon/internal/bot"
	"backgammon/internal/config"
	"backgammon/internal/domain"
	"backgammon/internal/ports/memory"
)

func TestRegistrySweepsIdleEmptySession(t *testing.T) {
	r := NewRegistry(5*time.Millisecond, 10*time.Millisecond)
	defer r.Close()

	sess, _ := newTestSession(7)
	fabric := newCapturingFabric()
	r.CreateSession(sess, fabric, memory.New(), nil, ClockNone, config.ClockConfig{})

	if _, ok := r.Get(sess.ID); !ok {
		t.Fatal("session should be registered immediately after creation")
	}

	waitFor(t, time.Second, func() bool {
		_, ok := r.Get(sess.ID)
		return !ok
	})
}

func TestRegistryContinuesMatchAfterGameSettles(t *testing.T) {
	r := NewRegistry(time.Hour, time.Hour) // sweeper must not interfere
	defer r.Close()

	sess, match := newTestSession(3)
	fabric := newCapturingFabric()
	bots := map[domain.Color]*bot.Agent{}

	orch := r.CreateSession(sess, fabric, memory.New(), bots, ClockNone, config.ClockConfig{})
	if _, err := orch.JoinGame("alice", "conn-a"); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if _, err := orch.JoinGame("bob", "conn-b"); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	firstID := sess.ID
	if _, err := orch.AbandonGame("alice"); err != nil {
		t.Fatalf("AbandonGame: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		_, ok := r.Get(firstID)
		return !ok
	})
	if match.IsComplete() {
		t.Fatal("a single abandoned game at targetScore 3 should not complete the match")
	}

	ids := r.SessionIDs()
	if len(ids) != 1 {
		t.Fatalf("expected exactly one live session after continuation, got %v", ids)
	}
	nextOrch, ok := r.Get(ids[0])
	if !ok {
		t.Fatal("continuation session should be registered")
	}
	if nextOrch.Session().Match != match {
		t.Fatal("continuation session should share the same Match")
	}
	if _, ok := nextOrch.Session().Color("alice"); !ok {
		t.Fatal("alice's seat should have migrated to the continuation session")
	}
}
