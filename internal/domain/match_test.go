package domain

import "testing"

func TestMatchCrawfordKeyedOnLoserScore(t *testing.T) {
	m := NewMatch(3, true)
	m.RecordGameResult(White, Normal, 1) // White 1, Red 0
	if m.IsCrawfordGame() {
		t.Fatal("Crawford must not trigger before the loser reaches target-1")
	}
	m.RecordGameResult(White, Normal, 1) // White 2 == target-1, but White is the winner each time
	if m.IsCrawfordGame() {
		t.Fatal("Crawford is keyed on the LOSING side reaching target-1, not the winner")
	}
}

func TestMatchCrawfordNotTriggeredByWinnerAtTargetMinusOne(t *testing.T) {
	m := NewMatch(3, true)
	m.RecordGameResult(White, Normal, 1) // White 1, Red 0
	m.RecordGameResult(Red, Normal, 1)    // White 1, Red 1
	m.RecordGameResult(Red, Normal, 1)    // White 1, Red 2 == target-1; loser (White) sits at 1
	if m.IsCrawfordGame() {
		t.Fatal("Crawford requires the LOSER's score to equal target-1, not the winner's")
	}
}

func TestMatchCrawfordAppliesOnceThenClears(t *testing.T) {
	m := NewMatch(5, true)
	m.RecordGameResult(Red, Gammon, 2)   // Red 4 == target-1, White 0
	m.RecordGameResult(White, Normal, 1) // Red (loser) sits at 4 == target-1; next game is Crawford
	if !m.IsCrawfordGame() {
		t.Fatal("expected the upcoming game to be flagged Crawford")
	}
	m.RecordGameResult(White, Normal, 1) // the Crawford game is played and won by White
	if m.IsCrawfordGame() {
		t.Fatal("Crawford flag must clear once the Crawford game has been played")
	}
	results := m.Results()
	if !results[2].WasCrawford {
		t.Fatal("the recorded game should be marked as having been the Crawford game")
	}
	// Crawford must not trigger a second time even though the loser (Red) again sits at target-1.
	m.RecordGameResult(White, Normal, 1)
	if m.IsCrawfordGame() {
		t.Fatal("Crawford rule applies at most once per match")
	}
}

func TestMatchCompletes(t *testing.T) {
	m := NewMatch(3, false)
	m.RecordGameResult(White, Backgammon, 2) // 6 points in one game
	if !m.IsComplete() {
		t.Fatal("expected match complete once target score reached")
	}
	w, ok := m.MatchWinner()
	if !ok || w != White {
		t.Fatalf("MatchWinner = %v,%v want White,true", w, ok)
	}
}
