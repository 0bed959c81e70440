package session

import "backgammon/internal/domain"

// JoinGame binds connectionID to playerID's seat (or reconnects an
// existing seat). When the second player joins, the game is already
// running (the session was created with its engine already having rolled
// the opening roll), so joinGame's only further effect is to broadcast
// OpponentJoined and the initial GameStart view.
func (o *Orchestrator) JoinGame(playerID, connectionID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()

	wasFull := o.sess.IsFull()
	color, seated := o.sess.AddPlayerConnection(playerID, connectionID)
	o.sess.Touch()
	if !seated {
		return o.snapshotFor(connectionID), nil
	}
	if !wasFull && o.sess.IsFull() {
		o.broadcastEvent(EventOpponentJoined, color)
		o.broadcastEvent(EventGameStart, nil)
		if o.sess.Clock != nil {
			o.sess.Clock.StartTurn(o.sess.Engine.CurrentPlayer())
		}
		o.maybeScheduleBot()
	}
	o.broadcastGameUpdate()
	return o.snapshotFor(connectionID), nil
}

func (o *Orchestrator) requireCurrentPlayer(playerID string) (domain.Color, *ActionError) {
	c, ok := o.sess.Color(playerID)
	if !ok {
		return c, validationErr(domain.ReasonNotYourTurn)
	}
	if c != o.sess.Engine.CurrentPlayer() {
		return c, validationErr(domain.ReasonNotYourTurn)
	}
	return c, nil
}

// RollDice rolls new dice for the current player's turn. Precondition:
// current player's connection, no remaining dice, no pending cube offer.
func (o *Orchestrator) RollDice(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	if _, err := o.requireCurrentPlayer(playerID); err != nil {
		return StateSnapshot{}, err
	}
	if _, pending := o.sess.Engine.Cube().PendingOffer(); pending {
		return StateSnapshot{}, contentionErr(domain.ReasonOfferAlreadyPending)
	}
	if res := o.sess.Engine.RollDice(); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// MakeMove executes m for playerID. Precondition: current player, move in
// the legal set.
func (o *Orchestrator) MakeMove(playerID string, m domain.Move) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	if _, err := o.requireCurrentPlayer(playerID); err != nil {
		return StateSnapshot{}, err
	}
	if res := o.sess.Engine.ExecuteMove(m); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	if w, ok := o.sess.Engine.Winner(); ok {
		_, class, stakes, _ := o.sess.Engine.GetGameResult()
		o.settle(w, class, stakes)
	}
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// EndTurn flips the current player. Precondition: current player, the
// forced-die rule is satisfied (no unplayed die could still be used).
func (o *Orchestrator) EndTurn(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	if _, err := o.requireCurrentPlayer(playerID); err != nil {
		return StateSnapshot{}, err
	}
	if res := o.sess.Engine.EndTurn(); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	if o.sess.Clock != nil {
		o.sess.Clock.StartTurn(o.sess.Engine.CurrentPlayer())
	}
	o.broadcastGameUpdate()
	o.maybeScheduleBot()
	return o.sess.GetState(""), nil
}

// UndoLastMove reverses the current turn's most recent move. Precondition:
// current player, non-empty turn history.
func (o *Orchestrator) UndoLastMove(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	if _, err := o.requireCurrentPlayer(playerID); err != nil {
		return StateSnapshot{}, err
	}
	if res := o.sess.Engine.UndoLastMove(); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// OfferDouble registers a double offer from playerID. Precondition:
// current player, before rolling, cube ownership permits the offer.
func (o *Orchestrator) OfferDouble(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	color, err := o.requireCurrentPlayer(playerID)
	if err != nil {
		return StateSnapshot{}, err
	}
	if res := o.sess.Engine.OfferDouble(color); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	o.broadcastEvent(EventDoubleOffered, color)
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// AcceptDouble resolves a pending offer in favor of playerID (the
// offerer's opponent).
func (o *Orchestrator) AcceptDouble(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	color, ok := o.sess.Color(playerID)
	if !ok {
		return StateSnapshot{}, validationErr(domain.ReasonNotResponder)
	}
	if res := o.sess.Engine.AcceptDouble(color); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	o.broadcastEvent(EventDoubleAccepted, color)
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// DeclineDouble resolves a pending offer against playerID: the offerer
// wins immediately at the cube's pre-offer value, classification Normal.
func (o *Orchestrator) DeclineDouble(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	color, ok := o.sess.Color(playerID)
	if !ok {
		return StateSnapshot{}, validationErr(domain.ReasonNotResponder)
	}
	if res := o.sess.Engine.DeclineDouble(color); !res.OK {
		return StateSnapshot{}, fromResult(res)
	}
	o.sess.Touch()
	w, class, stakes, _ := o.sess.Engine.GetGameResult()
	o.settle(w, class, stakes)
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// AbandonGame ends the game in favor of playerID's opponent at the
// current cube value, classification Normal. Any connected player may
// call this.
func (o *Orchestrator) AbandonGame(playerID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	color, ok := o.sess.Color(playerID)
	if !ok {
		return StateSnapshot{}, notFoundErr("player not seated in this session")
	}
	winner := color.Other()
	o.sess.Engine.ForceWin(winner, domain.Normal)
	_, class, stakes, _ := o.sess.Engine.GetGameResult()
	o.settle(winner, class, stakes)
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// LeaveGame detaches connectionID. If it was the session's last
// connection and the game never started, the caller (Registry) is
// responsible for evicting the session; LeaveGame itself only updates
// connection bookkeeping and broadcasts.
func (o *Orchestrator) LeaveGame(connectionID string) *ActionError {
	o.mu.Lock()
	defer o.mu.Unlock()
	color, hadColor := o.sess.connectionColor(connectionID)
	o.sess.RemoveConnection(connectionID)
	o.sess.Touch()
	if hadColor {
		o.broadcastEvent(EventOpponentLeft, color)
	}
	return nil
}

// TimeoutOccurred is injected by the Time Controller (directly, or via
// EnqueueTimeout to respect the lock-order rule): the player on the clock
// loses immediately, classification Normal.
func (o *Orchestrator) TimeoutOccurred() (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return StateSnapshot{}, terminalErr()
	}
	loser := o.sess.Engine.CurrentPlayer()
	winner := loser.Other()
	o.sess.Engine.ForceWin(winner, domain.Normal)
	_, class, stakes, _ := o.sess.Engine.GetGameResult()
	o.settle(winner, class, stakes)
	o.broadcastEvent(EventPlayerTimedOut, loser)
	o.broadcastGameUpdate()
	return o.sess.GetState(""), nil
}

// RequestAnalysis puts the session into analysis mode for playerID's
// connection, stopping its clock and exposing the full legal-move set
// only to that connection regardless of whose turn it is.
func (o *Orchestrator) RequestAnalysis(connectionID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sess.AnalysisMode = true
	o.sess.AnalysisOwner = connectionID
	if o.sess.Clock != nil {
		o.sess.Clock.Stop()
	}
	return o.snapshotFor(connectionID), nil
}

// LeaveAnalysis exits analysis mode, resuming the clock for the current
// player if one is configured.
func (o *Orchestrator) LeaveAnalysis(connectionID string) (StateSnapshot, *ActionError) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess.AnalysisOwner != connectionID {
		return StateSnapshot{}, validationErr(domain.ReasonNone)
	}
	o.sess.AnalysisMode = false
	o.sess.AnalysisOwner = ""
	if o.sess.Clock != nil {
		if _, over := o.sess.Engine.Winner(); !over {
			o.sess.Clock.StartTurn(o.sess.Engine.CurrentPlayer())
		}
	}
	o.broadcastGameUpdate()
	return o.snapshotFor(connectionID), nil
}

// PostChat relays text from playerID to every connection in the session.
func (o *Orchestrator) PostChat(playerID, text string) *ActionError {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry := o.sess.PostChat(playerID, text)
	o.broadcastEvent(EventChatMessage, entry)
	return nil
}
