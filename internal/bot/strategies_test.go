package bot

import (
	"math/rand"
	"testing"

	"backgammon/internal/domain"
)

func newTestEngineForBot(t *testing.T) *domain.Engine {
	t.Helper()
	d := domain.NewDice(rand.New(rand.NewSource(3)))
	e := domain.NewEngine(d, false)
	return e
}

func TestRandomBotPlaysLegalMoves(t *testing.T) {
	e := newTestEngineForBot(t)
	b := NewRandomBot(nil)
	color := e.CurrentPlayer()
	moves := b.ChooseMoves(e, color)
	if len(moves) == 0 {
		t.Fatal("expected the bot to play at least one move from the opening roll")
	}
	if len(e.RemainingDice()) != 0 {
		t.Fatalf("expected all dice consumed, got %v remaining", e.RemainingDice())
	}
}

func TestRaceBotPlaysOpeningRoll(t *testing.T) {
	e := newTestEngineForBot(t)
	b := NewRaceBot()
	color := e.CurrentPlayer()
	moves := b.ChooseMoves(e, color)
	if len(moves) == 0 {
		t.Fatal("expected RaceBot to play at least one move")
	}
}

func TestNewBotUnknownTierFallsBackToRace(t *testing.T) {
	b := NewBot(Tier("nonsense"))
	if b.Name() != "race" {
		t.Fatalf("NewBot with an unknown tier = %q, want the race fallback", b.Name())
	}
}

func TestAgentRespondToPendingOffer(t *testing.T) {
	e := newTestEngineForBot(t)
	// The opening roll is already loaded for the first mover, so play that
	// turn out; the next player has not rolled yet and may offer.
	NewRandomBot(nil).ChooseMoves(e, e.CurrentPlayer())
	if res := e.EndTurn(); !res.OK {
		t.Fatalf("EndTurn after the opening turn failed: %+v", res)
	}
	color := e.CurrentPlayer()
	other := color.Other()
	if res := e.OfferDouble(color); !res.OK {
		t.Fatalf("OfferDouble failed: %+v", res)
	}
	agent := NewAgent(TierRace, other)
	responded, _ := agent.RespondToPendingOffer(e)
	if !responded {
		t.Fatal("expected the agent to respond to the pending offer")
	}
	if _, pending := e.Cube().PendingOffer(); pending {
		t.Fatal("responding to an offer must clear it")
	}
}
