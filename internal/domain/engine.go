package domain

// WinClass classifies how a game ended, for stake multiplier purposes.
type WinClass int

const (
	Normal WinClass = 1
	Gammon WinClass = 2
	Backgammon WinClass = 3
)

type playedMove struct {
	move Move
}

// Engine is the single-game rules engine: board, dice, current player,
// doubling cube, and the per-turn undo history. It exposes no network or
// persistence concerns — every method is a pure state transition guarded by
// a Reason-returning precondition check, so it can run identically inside a
// Nakama match, a bot's lookahead search, or a unit test.
//
// Engine is not safe for concurrent use; callers serialize access (the
// session orchestrator's per-session mutex, or Nakama's single match
// goroutine).
type Engine struct {
	board   *Board
	dice    *Dice
	current Color
	history []playedMove
	cube    *Cube
	winner  *Color
	class   WinClass
	crawford bool
	rolled  bool
}

// NewEngine creates a fresh game: standard starting position, an opening
// roll (never doubles) that both assigns the first mover and loads that
// roll as the first turn's dice, and a centered cube. crawford marks
// whether this game is the match's Crawford game (no doubling allowed).
func NewEngine(dice *Dice, crawford bool) *Engine {
	e := &Engine{
		board:    NewBoard(),
		dice:     dice,
		cube:     NewCube(),
		crawford: crawford,
	}
	_, _, first := dice.OpeningRoll()
	e.current = first
	e.rolled = true
	return e
}

// Board returns the engine's board.
func (e *Engine) Board() *Board { return e.board }

// CurrentPlayer returns whose turn it is.
func (e *Engine) CurrentPlayer() Color { return e.current }

// RemainingDice returns the dice left to play this turn.
func (e *Engine) RemainingDice() []int { return e.dice.Remaining() }

// Cube returns the engine's doubling cube.
func (e *Engine) Cube() *Cube { return e.cube }

// ReplaceDice swaps the engine's die source without disturbing the board,
// current player, or cube state. Used by analysis-mode replays and
// integration tests that need a reproducible sequence from a known point
// in an otherwise live game; it does not re-roll or touch e.rolled.
func (e *Engine) ReplaceDice(d *Dice) { e.dice = d }

// Winner reports the game's winner, if decided.
func (e *Engine) Winner() (Color, bool) {
	if e.winner == nil {
		return White, false
	}
	return *e.winner, true
}

// GetGameResult returns the winner, win classification, and stakes
// (classification multiplier × cube value) once the game has ended.
func (e *Engine) GetGameResult() (winner Color, class WinClass, stakes int, ok bool) {
	if e.winner == nil {
		return White, 0, 0, false
	}
	return *e.winner, e.class, int(e.class) * e.cube.Value(), true
}

// RollDice rolls new dice for the current player's turn. Legal only when
// the previous turn's dice have been fully consumed (or spent, at
// endTurn) and the game has not ended.
func (e *Engine) RollDice() Result {
	if e.winner != nil {
		return Fail(ReasonGameAlreadyOver)
	}
	if e.rolled || len(e.dice.Remaining()) != 0 {
		return Fail(ReasonAlreadyRolled)
	}
	e.dice.Roll()
	e.rolled = true
	return Ok()
}

// legalMovesRaw returns every single-die move that is legal in isolation
// against b for color, given the available dice multiset — without
// applying the maximal-dice-use (forced die) filter.
func legalMovesRaw(b *Board, color Color, dice []int) []Move {
	unique := uniqueValues(dice)
	var moves []Move

	if b.Bar(color) > 0 {
		for _, d := range unique {
			entry := color.EntryPoint(d)
			p := b.Point(entry)
			occ, occupied := p.Occupant()
			if occupied && occ != color && p.Count > 1 {
				continue
			}
			isHit := occupied && occ != color && p.Count == 1
			moves = append(moves, Move{From: 0, To: entry, Die: d, IsHit: isHit})
		}
		return moves
	}

	for i := 1; i <= 24; i++ {
		occ, ok := b.Point(i).Occupant()
		if !ok || occ != color {
			continue
		}
		for _, d := range unique {
			j, onBoard := color.Advance(i, d)
			if onBoard {
				dp := b.Point(j)
				if dc, docc := dp.Occupant(); docc && dc != color && dp.Count > 1 {
					continue
				}
				isHit := false
				if dc, docc := dp.Occupant(); docc && dc != color && dp.Count == 1 {
					isHit = true
				}
				moves = append(moves, Move{From: i, To: j, Die: d, IsHit: isHit})
				continue
			}
			// Off-board destination: only legal as a bear-off, and only
			// once every checker of color is in its home board.
			if !b.IsAllInHome(color) {
				continue
			}
			dist := color.DistanceToOff(i)
			if d == dist {
				moves = append(moves, Move{From: i, To: color.BearOffTarget(), Die: d, IsBearOff: true})
			} else if d > dist && b.FurthestFromHome(color) == dist {
				moves = append(moves, Move{From: i, To: color.BearOffTarget(), Die: d, IsBearOff: true})
			}
		}
	}
	return moves
}

func uniqueValues(dice []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, d := range dice {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

func applyRaw(b *Board, color Color, m Move) *Board {
	nb := b.Clone()
	if m.From == 0 {
		nb.bar[color]--
	} else {
		nb.RemoveChecker(m.From)
	}
	if m.IsHit {
		nb.bar[color.Other()]++
		nb.points[m.To] = Point{}
	}
	if m.IsBearOff {
		nb.off[color]++
	} else {
		nb.AddChecker(m.To, color)
	}
	return nb
}

func removeDie(dice []int, die int) []int {
	out := make([]int, 0, len(dice))
	removed := false
	for _, d := range dice {
		if !removed && d == die {
			removed = true
			continue
		}
		out = append(out, d)
	}
	return out
}

// maxDiceUsable returns the largest number of dice that can be played in
// sequence from b/dice for color, via exhaustive search over legal
// single-die moves. Branching is bounded by board size and at most four
// dice per turn, so this is cheap in practice.
func maxDiceUsable(b *Board, color Color, dice []int) int {
	if len(dice) == 0 {
		return 0
	}
	best := 0
	candidates := legalMovesRaw(b, color, dice)
	for _, m := range candidates {
		nb := applyRaw(b, color, m)
		remaining := removeDie(dice, m.Die)
		if n := 1 + maxDiceUsable(nb, color, remaining); n > best {
			best = n
		}
	}
	return best
}

// GetValidMoves returns every single-die move legal right now: legal in
// isolation, AND part of some sequence that realizes the maximum number of
// dice playable from the current position (the forced-die / maximal-use
// rule). When exactly one die can be used this turn and the two original
// dice differ, only moves using the larger die are returned.
func (e *Engine) GetValidMoves() []Move {
	dice := e.dice.Remaining()
	if len(dice) == 0 {
		return nil
	}
	candidates := legalMovesRaw(e.board, e.current, dice)
	if len(candidates) == 0 {
		return nil
	}
	target := maxDiceUsable(e.board, e.current, dice)
	var filtered []Move
	for _, m := range candidates {
		nb := applyRaw(e.board, e.current, m)
		remaining := removeDie(dice, m.Die)
		if 1+maxDiceUsable(nb, e.current, remaining) == target {
			filtered = append(filtered, m)
		}
	}
	if target == 1 && len(dice) == 2 && dice[0] != dice[1] {
		larger := dice[0]
		if dice[1] > larger {
			larger = dice[1]
		}
		usesLarger := false
		for _, m := range filtered {
			if m.Die == larger {
				usesLarger = true
				break
			}
		}
		if usesLarger {
			var onlyLarger []Move
			for _, m := range filtered {
				if m.Die == larger {
					onlyLarger = append(onlyLarger, m)
				}
			}
			filtered = onlyLarger
		}
	}
	return filtered
}

func (e *Engine) diagnoseIllegal(m Move) Reason {
	if e.board.Bar(e.current) > 0 && m.From != 0 {
		return ReasonBarEntryRequired
	}
	if !containsMove(legalMovesRaw(e.board, e.current, e.dice.Remaining()), m) {
		if m.IsBearOff && !e.board.IsAllInHome(e.current) {
			return ReasonNotAllInHome
		}
		found := false
		for _, d := range e.dice.Remaining() {
			if d == m.Die {
				found = true
			}
		}
		if !found {
			return ReasonDieNotAvailable
		}
		return ReasonDestinationBlocked
	}
	return ReasonWouldSkipUsableDie
}

// ExecuteMove applies m for the current player, consuming the matching die.
// Fails if the game has ended, no dice have been rolled, or m is not among
// GetValidMoves().
func (e *Engine) ExecuteMove(m Move) Result {
	if e.winner != nil {
		return Fail(ReasonGameAlreadyOver)
	}
	if len(e.dice.Remaining()) == 0 {
		return Fail(ReasonNoRollYet)
	}
	if !containsMove(e.GetValidMoves(), m) {
		return Fail(e.diagnoseIllegal(m))
	}
	e.board = applyRaw(e.board, e.current, m)
	e.dice.ConsumeDie(m.Die)
	e.history = append(e.history, playedMove{move: m})
	if e.board.Off(e.current) == 15 {
		w := e.current
		e.winner = &w
		e.class = classifyWin(e.board, w)
	}
	return Ok()
}

// UndoLastMove reverses the most recently executed move of the current
// turn, restoring the consumed die and any checker it hit.
func (e *Engine) UndoLastMove() Result {
	if len(e.history) == 0 {
		return Fail(ReasonNoMoveToUndo)
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	m := last.move
	nb := e.board.Clone()
	if m.IsBearOff {
		nb.off[e.current]--
		nb.AddChecker(m.From, e.current)
	} else {
		nb.RemoveChecker(m.To)
		if m.IsHit {
			other := e.current.Other()
			nb.bar[other]--
			nb.AddChecker(m.To, other)
		}
		if m.From == 0 {
			nb.bar[e.current]++
		} else {
			nb.AddChecker(m.From, e.current)
		}
	}
	e.board = nb
	e.dice.RestoreDie(m.Die)
	if e.winner != nil {
		e.winner = nil
		e.class = 0
	}
	return Ok()
}

// EndTurn passes the turn to the other player. Rejected if any legal
// sequence from the current position would still use more dice than have
// been played — a player must exhaust the maximal-use dice before passing.
func (e *Engine) EndTurn() Result {
	if e.winner != nil {
		return Fail(ReasonGameAlreadyOver)
	}
	if maxDiceUsable(e.board, e.current, e.dice.Remaining()) > 0 {
		return Fail(ReasonWouldSkipUsableDie)
	}
	e.current = e.current.Other()
	e.dice.ClearRemaining()
	e.history = nil
	e.rolled = false
	return Ok()
}

// OfferDouble registers a double offer from by. Legal only before either
// player has rolled dice this turn, when the game is not Crawford-locked,
// and when cube ownership permits by to offer.
func (e *Engine) OfferDouble(by Color) Result {
	if e.winner != nil {
		return Fail(ReasonGameAlreadyOver)
	}
	if e.crawford {
		return Fail(ReasonCrawfordNoDouble)
	}
	if by != e.current {
		return Fail(ReasonNotYourTurn)
	}
	if len(e.history) != 0 || len(e.dice.Remaining()) != 0 {
		return Fail(ReasonAlreadyRolled)
	}
	return e.cube.Offer(by)
}

// AcceptDouble resolves a pending offer in favor of by, doubling the cube
// and transferring ownership.
func (e *Engine) AcceptDouble(by Color) Result {
	if e.winner != nil {
		return Fail(ReasonGameAlreadyOver)
	}
	return e.cube.Accept(by)
}

// DeclineDouble resolves a pending offer against by: the offerer wins the
// game immediately, classified Normal, at the cube's pre-offer value.
func (e *Engine) DeclineDouble(by Color) Result {
	if e.winner != nil {
		return Fail(ReasonGameAlreadyOver)
	}
	offerer, res := e.cube.Decline(by)
	if !res.OK {
		return res
	}
	e.winner = &offerer
	e.class = Normal
	return Ok()
}

// ForceWin ends the game immediately in favor of winner at the given
// classification — used by the session orchestrator for abandonment and
// clock-timeout resolutions, which are session-level events the engine
// itself has no way to observe.
func (e *Engine) ForceWin(winner Color, class WinClass) {
	w := winner
	e.winner = &w
	e.class = class
}

// PositionID returns the compact wire encoding of the current board.
func (e *Engine) PositionID() string { return EncodePositionID(e.board) }

// Clone returns an independent copy of the engine, including its dice and
// cube state but sharing no mutable state with the original — used by the
// bot's move-sequence search, which must try candidate lines without
// disturbing the live game.
func (e *Engine) Clone() *Engine {
	nd := &Dice{rng: e.dice.rng}
	nd.remaining = append([]int(nil), e.dice.remaining...)
	nd.history = append([]Roll(nil), e.dice.history...)
	ne := &Engine{
		board:    e.board.Clone(),
		dice:     nd,
		current:  e.current,
		cube:     e.cube.Clone(),
		crawford: e.crawford,
		rolled:   e.rolled,
	}
	ne.history = append([]playedMove(nil), e.history...)
	if e.winner != nil {
		w := *e.winner
		ne.winner = &w
		ne.class = e.class
	}
	return ne
}

func classifyWin(b *Board, winner Color) WinClass {
	loser := winner.Other()
	if b.Off(loser) > 0 {
		return Normal
	}
	if b.Bar(loser) > 0 {
		return Backgammon
	}
	lo, hi := winner.HomeRange()
	for i := lo; i <= hi; i++ {
		if col, ok := b.Point(i).Occupant(); ok && col == loser {
			return Backgammon
		}
	}
	return Gammon
}
