package internal

import "backgammon/internal/domain"

// Sequence is one complete way to play out a turn's dice.
type Sequence struct {
	Moves []domain.Move
	End   *domain.Board
}

// GenerateSequences enumerates every maximal-length move sequence playable
// from e's current position, without mutating e. Each sequence already
// respects the engine's forced-die filtering (domain.Engine.GetValidMoves
// only ever offers moves that belong to some maximal sequence), so the
// search here only has to follow the tree GetValidMoves exposes at each
// step rather than re-deriving the maximal-use rule itself.
func GenerateSequences(e *domain.Engine) []Sequence {
	var out []Sequence
	var walk func(eng *domain.Engine, moves []domain.Move)
	walk = func(eng *domain.Engine, moves []domain.Move) {
		valid := eng.GetValidMoves()
		if len(valid) == 0 {
			out = append(out, Sequence{
				Moves: append([]domain.Move(nil), moves...),
				End:   eng.Board().Clone(),
			})
			return
		}
		for _, m := range valid {
			clone := eng.Clone()
			clone.ExecuteMove(m)
			walk(clone, append(moves, m))
		}
	}
	walk(e.Clone(), nil)
	if len(out) == 0 {
		out = append(out, Sequence{End: e.Board().Clone()})
	}
	return out
}
