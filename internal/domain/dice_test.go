package domain

import (
	"math/rand"
	"testing"
)

func TestOpeningRollNeverDoubles(t *testing.T) {
	d := NewDice(rand.New(rand.NewSource(42)))
	for i := 0; i < 200; i++ {
		d1, d2, first := d.OpeningRoll()
		if d1 == d2 {
			t.Fatalf("opening roll produced doubles: %d %d", d1, d2)
		}
		wantFirst := Red
		if d1 > d2 {
			wantFirst = White
		}
		if first != wantFirst {
			t.Errorf("OpeningRoll(%d,%d) first=%v, want %v", d1, d2, first, wantFirst)
		}
		remaining := d.Remaining()
		if len(remaining) != 2 {
			t.Fatalf("remaining after opening roll = %v, want 2 entries", remaining)
		}
	}
}

func TestRemainingAfterRollDoubles(t *testing.T) {
	got := RemainingAfterRoll(4, 4)
	if len(got) != 4 {
		t.Fatalf("doubles expansion = %v, want 4 entries", got)
	}
	for _, v := range got {
		if v != 4 {
			t.Errorf("doubles expansion entry = %d, want 4", v)
		}
	}
}

func TestConsumeAndRestoreDie(t *testing.T) {
	d := NewDice(rand.New(rand.NewSource(1)))
	d.SetForTest(3, 5)
	if !d.ConsumeDie(3) {
		t.Fatal("expected to consume die 3")
	}
	if d.ConsumeDie(3) {
		t.Fatal("die 3 should already be consumed")
	}
	d.RestoreDie(3)
	remaining := d.Remaining()
	if len(remaining) != 2 {
		t.Fatalf("remaining after restore = %v, want 2 entries", remaining)
	}
}

func TestHistoryBounded(t *testing.T) {
	d := NewDice(rand.New(rand.NewSource(7)))
	for i := 0; i < maxRollHistory+10; i++ {
		d.SetForTest(1, 2)
	}
	if got := len(d.History()); got != maxRollHistory {
		t.Fatalf("history length = %d, want %d", got, maxRollHistory)
	}
}
