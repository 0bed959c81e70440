package domain

import "fmt"

// Point holds the checkers of one color stacked on a single board point.
// Count == 0 means the point is empty; Color is meaningless in that case.
type Point struct {
	Color Color
	Count int
}

// Occupant reports the color occupying the point and whether it is occupied.
func (p Point) Occupant() (Color, bool) {
	if p.Count == 0 {
		return White, false
	}
	return p.Color, true
}

// Blot reports whether the point holds exactly one checker (hittable).
func (p Point) Blot() bool { return p.Count == 1 }

// Board is the 24-point backgammon board plus bar and borne-off counters.
// Points are indexed 1..24; index 0 is unused. Board is a value type (all
// fields are arrays), so copying a Board by assignment produces an
// independent deep copy — used heavily by the rules engine's move-sequence
// search.
type Board struct {
	points [25]Point
	bar    [2]int
	off    [2]int
}

// NewBoard returns a board set up in the standard starting position.
func NewBoard() *Board {
	b := &Board{}
	b.SetupInitial()
	return b
}

// SetupInitial resets b to the standard starting position.
func (b *Board) SetupInitial() {
	*b = Board{}
	b.points[24] = Point{Color: White, Count: 2}
	b.points[13] = Point{Color: White, Count: 5}
	b.points[8] = Point{Color: White, Count: 3}
	b.points[6] = Point{Color: White, Count: 5}

	b.points[1] = Point{Color: Red, Count: 2}
	b.points[12] = Point{Color: Red, Count: 5}
	b.points[17] = Point{Color: Red, Count: 3}
	b.points[19] = Point{Color: Red, Count: 5}
}

// Point returns the contents of point i (1..24).
func (b *Board) Point(i int) Point { return b.points[i] }

// Bar returns the number of c's checkers on the bar.
func (b *Board) Bar(c Color) int { return b.bar[c] }

// Off returns the number of c's checkers borne off.
func (b *Board) Off(c Color) int { return b.off[c] }

// Checkers returns the total number of c's checkers across bar, board, and
// off — used by the conservation invariant check.
func (b *Board) Checkers(c Color) int {
	total := b.bar[c] + b.off[c]
	for i := 1; i <= 24; i++ {
		if col, ok := b.points[i].Occupant(); ok && col == c {
			total += b.points[i].Count
		}
	}
	return total
}

// AddChecker places one checker of color c on point i. The point must be
// empty or already held by c.
func (b *Board) AddChecker(i int, c Color) {
	p := &b.points[i]
	if p.Count == 0 {
		p.Color = c
	}
	p.Count++
}

// RemoveChecker removes one checker from point i, returning its color. It
// panics if the point is empty — callers must only remove from points they
// have already verified are occupied by the expected color.
func (b *Board) RemoveChecker(i int) Color {
	p := &b.points[i]
	if p.Count == 0 {
		panic(fmt.Sprintf("domain: RemoveChecker on empty point %d", i))
	}
	c := p.Color
	p.Count--
	return c
}

// IsAllInHome reports whether every one of c's on-board checkers sits
// within c's home board (and none are on the bar).
func (b *Board) IsAllInHome(c Color) bool {
	if b.bar[c] > 0 {
		return false
	}
	lo, hi := c.HomeRange()
	for i := 1; i <= 24; i++ {
		if i >= lo && i <= hi {
			continue
		}
		if col, ok := b.points[i].Occupant(); ok && col == c {
			return false
		}
	}
	return true
}

// FurthestFromHome returns the maximum DistanceToOff among c's occupied
// points. Returns 0 if c has no checkers on the board (all borne off or on
// the bar).
func (b *Board) FurthestFromHome(c Color) int {
	max := 0
	for i := 1; i <= 24; i++ {
		col, ok := b.points[i].Occupant()
		if !ok || col != c {
			continue
		}
		if d := c.DistanceToOff(i); d > max {
			max = d
		}
	}
	return max
}

// PipCount returns the total pip distance c's checkers (on the bar, on the
// board, not yet borne off) must travel to bear off entirely.
func (b *Board) PipCount(c Color) int {
	total := b.bar[c] * 25
	for i := 1; i <= 24; i++ {
		if col, ok := b.points[i].Occupant(); ok && col == c {
			total += b.points[i].Count * c.DistanceToOff(i)
		}
	}
	return total
}

// Validate checks the conservation invariant: each color has exactly 15
// checkers across bar, board, and off, and no point has a negative count.
func (b *Board) Validate() error {
	for _, c := range []Color{White, Red} {
		if n := b.Checkers(c); n != 15 {
			return fmt.Errorf("domain: %s has %d checkers, want 15", c, n)
		}
	}
	for i := 1; i <= 24; i++ {
		if b.points[i].Count < 0 {
			return fmt.Errorf("domain: point %d has negative count", i)
		}
	}
	return nil
}

// Clone returns an independent copy of b.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}
