package domain

import "testing"

func TestNewBoardConservation(t *testing.T) {
	b := NewBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("initial board invalid: %v", err)
	}
	if got := b.Checkers(White); got != 15 {
		t.Errorf("White checkers = %d, want 15", got)
	}
	if got := b.Checkers(Red); got != 15 {
		t.Errorf("Red checkers = %d, want 15", got)
	}
}

func TestIsAllInHome(t *testing.T) {
	b := &Board{}
	b.AddChecker(3, White)
	b.AddChecker(6, White)
	if !b.IsAllInHome(White) {
		t.Fatal("expected all White checkers in home")
	}
	b.AddChecker(7, White)
	if b.IsAllInHome(White) {
		t.Fatal("expected not all in home with a checker on point 7")
	}
}

func TestIsAllInHomeBarBlocks(t *testing.T) {
	b := &Board{}
	b.AddChecker(3, White)
	b.bar[White] = 1
	if b.IsAllInHome(White) {
		t.Fatal("a checker on the bar must block IsAllInHome")
	}
}

func TestFurthestFromHome(t *testing.T) {
	b := &Board{}
	b.AddChecker(1, White)
	b.AddChecker(2, White)
	if got := b.FurthestFromHome(White); got != 2 {
		t.Errorf("FurthestFromHome = %d, want 2", got)
	}
}

func TestPipCount(t *testing.T) {
	b := NewBoard()
	// Standard starting pip count is 167 for each side.
	if got := b.PipCount(White); got != 167 {
		t.Errorf("White PipCount = %d, want 167", got)
	}
	if got := b.PipCount(Red); got != 167 {
		t.Errorf("Red PipCount = %d, want 167", got)
	}
}

func TestCloneIndependence(t *testing.T) {
	b := NewBoard()
	nb := b.Clone()
	nb.RemoveChecker(24)
	if b.Point(24).Count != 2 {
		t.Fatal("mutating a clone must not affect the original board")
	}
}
