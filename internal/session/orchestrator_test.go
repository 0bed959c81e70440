package session

import (
	"sync"
	"testing"
	"time"

	"backgammon/internal/domain"
	"backgammon/internal/ports/memory"
)

type capturingFabric struct {
	mu     sync.Mutex
	events map[string][]Event // connectionID -> events
}

func newCapturingFabric() *capturingFabric {
	return &capturingFabric{events: make(map[string][]Event)}
}

func (f *capturingFabric) Send(connectionID string, evt Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[connectionID] = append(f.events[connectionID], evt)
}

func (f *capturingFabric) Broadcast(sessionID string, evt Event, audience []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events["*"] = append(f.events["*"], evt)
}

func (f *capturingFabric) kinds(connectionID string) []EventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]EventKind, len(f.events[connectionID]))
	for i, e := range f.events[connectionID] {
		out[i] = e.Kind
	}
	return out
}

func newTestSession(targetScore int) (*Session, *domain.Match) {
	match := domain.NewMatch(targetScore, true)
	engine := domain.NewEngine(domain.NewDice(nil), false)
	sess := NewSession(NewSessionID(), engine, match, nil)
	return sess, match
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not satisfied within %s", timeout)
}

func TestJoinGameBroadcastsGameStartOnceFull(t *testing.T) {
	sess, _ := newTestSession(7)
	fabric := newCapturingFabric()
	o := NewOrchestrator(sess, fabric, memory.New(), nil, func(*Orchestrator, domain.GameResult) {})
	defer o.Close()

	if _, err := o.JoinGame("alice", "conn-a"); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if sess.IsFull() {
		t.Fatal("session should not be full after one player joins")
	}
	if _, err := o.JoinGame("bob", "conn-b"); err != nil {
		t.Fatalf("bob join: %v", err)
	}
	if !sess.IsFull() {
		t.Fatal("session should be full after both players joined")
	}

	found := false
	for _, k := range fabric.kinds("*") {
		if k == EventGameStart {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a GameStart broadcast, got %v", fabric.kinds("*"))
	}
}

func TestAbandonGameSettlesAndNotifiesRegistry(t *testing.T) {
	sess, match := newTestSession(2)
	fabric := newCapturingFabric()
	store := memory.New()
	sess.MatchID = "m-1"

	settledCh := make(chan domain.GameResult, 1)
	o := NewOrchestrator(sess, fabric, store, nil, func(_ *Orchestrator, result domain.GameResult) {
		settledCh <- result
	})
	defer o.Close()

	if _, err := o.JoinGame("alice", "conn-a"); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if _, err := o.JoinGame("bob", "conn-b"); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	loserColor, _ := sess.Color("alice")
	if _, err := o.AbandonGame("alice"); err != nil {
		t.Fatalf("AbandonGame: %v", err)
	}

	select {
	case result := <-settledCh:
		if result.Winner != loserColor.Other() {
			t.Fatalf("winner = %v, want %v", result.Winner, loserColor.Other())
		}
	case <-time.After(time.Second):
		t.Fatal("onSettled was never invoked")
	}

	waitFor(t, time.Second, func() bool {
		return len(store.Results(sess.MatchID)) == 1
	})
	if match.Score(loserColor.Other()) == 0 {
		t.Fatalf("match score for winner should be non-zero, got %d", match.Score(loserColor.Other()))
	}
}
