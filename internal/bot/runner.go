package bot

import "backgammon/internal/domain"

// Agent binds a Brain to the color it plays. The session-level
// Auto-Opponent Runner holds one Agent per bot seat and invokes its
// methods only from its own scheduled task, never inline from the action
// orchestrator — this keeps "thinking time" off the session's
// action-processing path, matching the teacher's bot delay being applied
// outside the match's synchronous handler path.
type Agent struct {
	Brain Brain
	Color domain.Color
}

// NewAgent returns an Agent for tier playing color.
func NewAgent(tier Tier, color domain.Color) *Agent {
	return &Agent{Brain: NewBot(tier), Color: color}
}

// MaybeOfferDouble asks the brain whether to open a double before rolling,
// and does so if it agrees to. Reports whether an offer was made.
func (a *Agent) MaybeOfferDouble(e *domain.Engine) bool {
	if e.CurrentPlayer() != a.Color {
		return false
	}
	if !a.Brain.ShouldOfferDouble(e, a.Color) {
		return false
	}
	return e.OfferDouble(a.Color).OK
}

// RespondToPendingOffer resolves a double offered to a.Color, if one is
// pending. Reports whether it responded and whether it accepted.
func (a *Agent) RespondToPendingOffer(e *domain.Engine) (responded, accepted bool) {
	offerer, pending := e.Cube().PendingOffer()
	if !pending || offerer == a.Color {
		return false, false
	}
	if a.Brain.RespondToDouble(e, a.Color) {
		return true, e.AcceptDouble(a.Color).OK
	}
	e.DeclineDouble(a.Color)
	return true, false
}

// PlayTurn plays a.Color's entire turn against already-rolled dice: the
// brain chooses and executes the maximal-use move sequence, then the turn
// is passed.
func (a *Agent) PlayTurn(e *domain.Engine) []domain.Move {
	moves := a.Brain.ChooseMoves(e, a.Color)
	e.EndTurn()
	return moves
}
