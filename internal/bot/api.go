package bot

import "backgammon/internal/domain"

// Brain is the capability interface every auto-opponent difficulty tier
// implements. The Auto-Opponent Runner calls it only from the scheduled
// task it runs on, never inline from an orchestrator action, keeping bot
// "thinking time" off the session's action-processing path.
type Brain interface {
	// Name identifies the tier for logging and session snapshots.
	Name() string
	// ChooseMoves returns the full sequence of moves to play this turn
	// for color, given engine e's current position and remaining dice.
	// The returned sequence is guaranteed to be legal: every move in it
	// is drawn from e.GetValidMoves() at the point it is played.
	ChooseMoves(e *domain.Engine, color domain.Color) []domain.Move
	// ShouldOfferDouble reports whether color should offer a double
	// before rolling, given the present cube and position.
	ShouldOfferDouble(e *domain.Engine, color domain.Color) bool
	// RespondToDouble reports whether color should accept a pending
	// double offered to them.
	RespondToDouble(e *domain.Engine, color domain.Color) bool
}
