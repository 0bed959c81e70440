package domain

import (
	"math/rand"
	"testing"
)

func newTestEngine(current Color, board *Board, dice []int, crawford bool) *Engine {
	d := NewDice(rand.New(rand.NewSource(1)))
	d.SetRemainingForTest(dice)
	return &Engine{board: board, dice: d, current: current, cube: NewCube(), crawford: crawford, rolled: true}
}

func TestNewEngineOpeningRollAssignsMover(t *testing.T) {
	d := NewDice(rand.New(rand.NewSource(99)))
	e := NewEngine(d, false)
	if len(e.RemainingDice()) != 2 {
		t.Fatalf("expected 2 dice loaded from the opening roll, got %v", e.RemainingDice())
	}
	if e.CurrentPlayer() != White && e.CurrentPlayer() != Red {
		t.Fatal("opening roll must assign a first mover")
	}
	if err := e.Board().Validate(); err != nil {
		t.Fatalf("new engine board invalid: %v", err)
	}
}

func TestForcedLargerDieBlockedAlternative(t *testing.T) {
	b := &Board{}
	b.AddChecker(24, White)
	b.points[23] = Point{Color: Red, Count: 2} // blocks die 1 (24->23)
	e := newTestEngine(White, b, []int{1, 6}, false)

	moves := e.GetValidMoves()
	if len(moves) != 1 || moves[0].Die != 6 || moves[0].To != 18 {
		t.Fatalf("GetValidMoves = %+v, want only 24->18 with die 6", moves)
	}
	if res := e.ExecuteMove(moves[0]); !res.OK {
		t.Fatalf("ExecuteMove failed: %+v", res)
	}
	after := e.GetValidMoves()
	if len(after) != 1 || after[0].Die != 1 || after[0].To != 17 {
		t.Fatalf("GetValidMoves after first move = %+v, want 18->17 with die 1", after)
	}
}

func TestForcedDieTieBreakUsesLarger(t *testing.T) {
	b := &Board{}
	b.AddChecker(2, White)
	e := newTestEngine(White, b, []int{3, 5}, false)

	moves := e.GetValidMoves()
	if len(moves) != 1 {
		t.Fatalf("GetValidMoves = %+v, want exactly one move", moves)
	}
	if moves[0].Die != 5 {
		t.Fatalf("GetValidMoves = %+v, want the move using the larger die (5)", moves)
	}
}

func TestBarEntryHitsBlot(t *testing.T) {
	b := &Board{}
	b.bar[White] = 1
	b.points[21] = Point{Color: Red, Count: 1} // entry point for die 4 (25-4=21)
	e := newTestEngine(White, b, []int{4, 2}, false)

	moves := e.GetValidMoves()
	found := false
	for _, m := range moves {
		if m.From == 0 && m.Die == 4 {
			if !m.IsHit {
				t.Fatal("entering on a blot must be flagged as a hit")
			}
			found = true
			if res := e.ExecuteMove(m); !res.OK {
				t.Fatalf("ExecuteMove failed: %+v", res)
			}
		}
	}
	if !found {
		t.Fatal("expected a legal bar-entry move with die 4")
	}
	if e.Board().Bar(Red) != 1 {
		t.Fatal("hitting a blot must send it to the bar")
	}
	col, ok := e.Board().Point(21).Occupant()
	if !ok || col != White {
		t.Fatal("the entering checker must occupy the entry point after a hit")
	}
}

func TestBarEntryRequiredBeforeOtherMoves(t *testing.T) {
	b := &Board{}
	b.bar[White] = 1
	b.AddChecker(10, White)
	b.points[21] = Point{Color: Red, Count: 2} // entry point for die 4 blocked
	e := newTestEngine(White, b, []int{4, 3}, false)

	moves := e.GetValidMoves()
	for _, m := range moves {
		if m.From != 0 {
			t.Fatalf("while a checker is on the bar, only entry moves may be legal, got %+v", m)
		}
	}
	// die 4's entry point is blocked, so only die 3's entry point (22) should be offered.
	if len(moves) != 1 || moves[0].Die != 3 {
		t.Fatalf("GetValidMoves = %+v, want only the die-3 entry", moves)
	}

	bad := Move{From: 10, To: 7, Die: 3}
	res := e.ExecuteMove(bad)
	if res.OK || res.Reason != ReasonBarEntryRequired {
		t.Fatalf("ExecuteMove for a non-entry move while on the bar = %+v, want ReasonBarEntryRequired", res)
	}
}

func TestBearOffOvershootSequencing(t *testing.T) {
	b := &Board{}
	b.AddChecker(1, White)
	b.AddChecker(2, White)
	e := newTestEngine(White, b, []int{6, 5}, false)

	first := e.GetValidMoves()
	if len(first) != 2 {
		t.Fatalf("GetValidMoves = %+v, want both dice able to bear off the highest point (2)", first)
	}
	var six Move
	for _, m := range first {
		if m.Die == 6 {
			six = m
		}
		if m.From != 2 {
			t.Fatalf("both first moves must bear off point 2 (the furthest occupied point), got %+v", m)
		}
	}
	if res := e.ExecuteMove(six); !res.OK {
		t.Fatalf("ExecuteMove failed: %+v", res)
	}

	if res := e.EndTurn(); res.OK {
		t.Fatal("EndTurn must be rejected while die 5 can still bear off point 1")
	}

	second := e.GetValidMoves()
	if len(second) != 1 || second[0].Die != 5 || second[0].From != 1 {
		t.Fatalf("GetValidMoves after die 6 = %+v, want point 1 bearing off with die 5", second)
	}
	if res := e.ExecuteMove(second[0]); !res.OK {
		t.Fatalf("ExecuteMove failed: %+v", res)
	}
	if e.Board().Off(White) != 2 {
		t.Fatalf("Off(White) = %d, want 2", e.Board().Off(White))
	}
	if res := e.EndTurn(); !res.OK {
		t.Fatalf("EndTurn should succeed once both dice are used: %+v", res)
	}
}

func TestUndoLastMoveRestoresHit(t *testing.T) {
	b := &Board{}
	b.AddChecker(24, White)
	b.points[18] = Point{Color: Red, Count: 1}
	e := newTestEngine(White, b, []int{6}, false)

	m := Move{From: 24, To: 18, Die: 6, IsHit: true}
	if res := e.ExecuteMove(m); !res.OK {
		t.Fatalf("ExecuteMove failed: %+v", res)
	}
	if res := e.UndoLastMove(); !res.OK {
		t.Fatalf("UndoLastMove failed: %+v", res)
	}
	col, ok := e.Board().Point(18).Occupant()
	if !ok || col != Red || e.Board().Point(18).Count != 1 {
		t.Fatal("undo must restore the hit checker to its original point")
	}
	if e.Board().Bar(Red) != 0 {
		t.Fatal("undo must remove the restored checker from the bar")
	}
	col, ok = e.Board().Point(24).Occupant()
	if !ok || col != White {
		t.Fatal("undo must restore the moving checker to its origin")
	}
	if got := len(e.RemainingDice()); got != 1 {
		t.Fatalf("remaining dice after undo = %d, want 1", got)
	}
}

func TestCubeDeclineEndsGame(t *testing.T) {
	b := NewBoard()
	e := newTestEngine(White, b, nil, false)
	e.history = nil
	if res := e.OfferDouble(White); !res.OK {
		t.Fatalf("OfferDouble failed: %+v", res)
	}
	if res := e.DeclineDouble(Red); !res.OK {
		t.Fatalf("DeclineDouble failed: %+v", res)
	}
	winner, class, stakes, ok := e.GetGameResult()
	if !ok || winner != White || class != Normal || stakes != 1 {
		t.Fatalf("GetGameResult = %v,%v,%v,%v want White,Normal,1,true", winner, class, stakes, ok)
	}
}

func TestCrawfordBlocksDoubleOffer(t *testing.T) {
	b := NewBoard()
	e := newTestEngine(White, b, nil, true)
	e.history = nil
	if res := e.OfferDouble(White); res.OK || res.Reason != ReasonCrawfordNoDouble {
		t.Fatalf("OfferDouble during Crawford = %+v, want ReasonCrawfordNoDouble", res)
	}
}

func TestBackgammonClassification(t *testing.T) {
	b := &Board{}
	b.AddChecker(1, White)
	b.off[White] = 14
	b.AddChecker(3, Red) // sits in White's home board (1-6), loser has no checkers off
	e := newTestEngine(White, b, []int{1}, false)
	m := Move{From: 1, To: 0, Die: 1, IsBearOff: true}
	if res := e.ExecuteMove(m); !res.OK {
		t.Fatalf("ExecuteMove failed: %+v", res)
	}
	_, class, _, ok := e.GetGameResult()
	if !ok || class != Backgammon {
		t.Fatalf("class = %v, want Backgammon (Red has a checker in White's home and none off)", class)
	}
}
