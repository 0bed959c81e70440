package internal

import "backgammon/internal/domain"

// GamePhase describes the current strategic stage of a turn, used to pick
// which PhaseWeights a move sequence is scored under.
type GamePhase int

const (
	PhaseOpening GamePhase = iota
	PhaseMid
	PhaseBearOff
)

// DeterminePhase classifies the position for color: BearOff once every
// checker is home, Opening while both sides' pip counts are still at least
// 160 (the starting count is 167), Mid otherwise. Contact between the two
// sides is not examined.
func DeterminePhase(b *domain.Board, color domain.Color) GamePhase {
	if b.IsAllInHome(color) {
		return PhaseBearOff
	}
	if b.PipCount(color) >= 160 && b.PipCount(color.Other()) >= 160 {
		return PhaseOpening
	}
	return PhaseMid
}
