package domain

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// maxRollHistory bounds the ring buffer kept for admin/analysis replay.
const maxRollHistory = 50

// Roll records one pair of pips rolled, in chronological order.
type Roll struct {
	D1, D2 int
}

// Dice is the per-engine die source: it owns the remaining-dice multiset
// for the current turn and a seedable RNG so games are reproducible in
// tests and analysis mode.
type Dice struct {
	rng       *rand.Rand
	remaining []int
	history   []Roll
}

// NewDice returns a Dice backed by rng. If rng is nil, a source seeded from
// crypto/rand is used so every live game gets its own unpredictable
// sequence — callers that need determinism (tests, analysis mode, replays)
// must pass an explicit *rand.Rand instead.
func NewDice(rng *rand.Rand) *Dice {
	if rng == nil {
		rng = rand.New(rand.NewSource(cryptoSeed()))
	}
	return &Dice{rng: rng}
}

// cryptoSeed reads an int64 seed from crypto/rand, falling back to 1 only
// if the system entropy source is unavailable (never expected outside a
// badly sandboxed container).
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// RemainingAfterRoll expands a rolled pair into the multiset of dice
// available to play: two values normally, four copies of the value on
// doubles.
func RemainingAfterRoll(d1, d2 int) []int {
	if d1 == d2 {
		return []int{d1, d1, d1, d1}
	}
	return []int{d1, d2}
}

func (d *Dice) pushHistory(r Roll) {
	d.history = append(d.history, r)
	if len(d.history) > maxRollHistory {
		d.history = d.history[len(d.history)-maxRollHistory:]
	}
}

// Roll rolls two dice for the current turn, replacing any remaining dice.
func (d *Dice) Roll() (int, int) {
	d1 := d.rng.Intn(6) + 1
	d2 := d.rng.Intn(6) + 1
	d.remaining = RemainingAfterRoll(d1, d2)
	d.pushHistory(Roll{d1, d2})
	return d1, d2
}

// SetForTest forces the next roll's values, bypassing the RNG. Used by
// tests and analysis-mode replays that need an exact position.
func (d *Dice) SetForTest(d1, d2 int) {
	d.remaining = RemainingAfterRoll(d1, d2)
	d.pushHistory(Roll{d1, d2})
}

// OpeningRoll rolls until the two dice differ (the opening roll may never
// be doubles), then returns the pair and the color that moves first — the
// side with the larger die — with those two values already loaded as the
// first turn's remaining dice.
func (d *Dice) OpeningRoll() (d1, d2 int, first Color) {
	for {
		d1 = d.rng.Intn(6) + 1
		d2 = d.rng.Intn(6) + 1
		if d1 != d2 {
			break
		}
	}
	d.remaining = []int{d1, d2}
	d.pushHistory(Roll{d1, d2})
	if d1 > d2 {
		first = White
	} else {
		first = Red
	}
	return
}

// Remaining returns the dice still available to play this turn.
func (d *Dice) Remaining() []int {
	out := make([]int, len(d.remaining))
	copy(out, d.remaining)
	return out
}

// ConsumeDie removes one occurrence of die from the remaining multiset,
// reporting whether it was present.
func (d *Dice) ConsumeDie(die int) bool {
	for i, v := range d.remaining {
		if v == die {
			d.remaining = append(d.remaining[:i], d.remaining[i+1:]...)
			return true
		}
	}
	return false
}

// RestoreDie pushes die back into the remaining multiset — used by undo.
func (d *Dice) RestoreDie(die int) {
	d.remaining = append(d.remaining, die)
}

// ClearRemaining discards any unplayed dice, used when a turn ends.
func (d *Dice) ClearRemaining() { d.remaining = nil }

// History returns a copy of the bounded roll history, oldest first.
func (d *Dice) History() []Roll {
	out := make([]Roll, len(d.history))
	copy(out, d.history)
	return out
}

// SetRemainingForTest forces the remaining multiset directly — used by
// tests that need to set up a mid-turn position without replaying moves.
func (d *Dice) SetRemainingForTest(dice []int) {
	d.remaining = append([]int(nil), dice...)
}
