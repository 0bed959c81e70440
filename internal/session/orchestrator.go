package session

import (
	"context"
	"sync"
	"time"

	"backgammon/internal/bot"
	"backgammon/internal/domain"
	"backgammon/internal/ports"
)

// GameSettledFunc is invoked once a game inside the orchestrator's session
// reaches a winner, after the result has been folded into the match. It is
// called under no lock; implementations (typically the Registry) decide
// whether to create the next game's session or mark the match complete.
type GameSettledFunc func(o *Orchestrator, result domain.GameResult)

// Orchestrator is the Action Orchestrator (spec §4.F): the core's
// concurrency boundary. Exactly one actor serializes every action against
// a session — here, a plain sync.Mutex, since Nakama's match-actor model
// already guarantees a single goroutine calls into MatchLoop at a time in
// production; the mutex keeps the kernel correct when driven directly
// (tests, an embedded CLI) where that guarantee doesn't hold.
//
// The Time Controller must never acquire this lock directly (spec §5's
// lock-order rule); it calls EnqueueTimeout, which drops a request onto
// mailbox for the background drain goroutine to process in turn instead.
type Orchestrator struct {
	mu   sync.Mutex
	sess *Session

	fabric      Fabric
	persistence ports.Persistence
	bots        map[domain.Color]*bot.Agent
	onSettled   GameSettledFunc

	mailbox chan func()
	done    chan struct{}
}

// NewOrchestrator returns an Orchestrator for sess, backed by fabric and
// persistence. Seats in bots (if any) are played by the Auto-Opponent
// Runner rather than a human connection.
func NewOrchestrator(sess *Session, fabric Fabric, persistence ports.Persistence, bots map[domain.Color]*bot.Agent, onSettled GameSettledFunc) *Orchestrator {
	o := &Orchestrator{
		sess:        sess,
		fabric:      fabric,
		persistence: persistence,
		bots:        bots,
		onSettled:   onSettled,
		mailbox:     make(chan func(), 32),
		done:        make(chan struct{}),
	}
	go o.drain()
	return o
}

// Close stops the mailbox drain goroutine. Called by the Registry on
// eviction.
func (o *Orchestrator) Close() { close(o.done) }

func (o *Orchestrator) drain() {
	for {
		select {
		case fn := <-o.mailbox:
			fn()
		case <-o.done:
			return
		}
	}
}

// EnqueueTimeout is the only entry point the Time Controller may use: it
// never blocks on o.mu, it only ever posts to the mailbox.
func (o *Orchestrator) EnqueueTimeout() {
	select {
	case o.mailbox <- func() { o.TimeoutOccurred() }:
	default:
		// Mailbox full: a timeout already in flight for this session makes
		// a second one redundant.
	}
}

// Session returns the orchestrator's session (read-only use by callers
// that need e.g. the session id or connection bookkeeping outside an
// action).
func (o *Orchestrator) Session() *Session { return o.sess }

// snapshotFor is a convenience the caller uses to build the response for
// a specific connection after an action completes.
func (o *Orchestrator) snapshotFor(connectionID string) StateSnapshot {
	return o.sess.GetState(connectionID)
}

// broadcastGameUpdate sends GameUpdate to every connection in the session,
// each rendered from that connection's own viewpoint so validMoves and
// viewerColor are populated correctly per recipient.
func (o *Orchestrator) broadcastGameUpdate() {
	for _, c := range []domain.Color{domain.White, domain.Red} {
		for _, cid := range o.sess.ConnectionsFor(c) {
			o.fabric.Send(cid, Event{Kind: EventGameUpdate, SessionID: o.sess.ID, Payload: o.snapshotFor(cid)})
		}
	}
	o.sess.connMu.RLock()
	spectators := make([]string, 0, len(o.sess.spectators))
	for cid := range o.sess.spectators {
		spectators = append(spectators, cid)
	}
	o.sess.connMu.RUnlock()
	for _, cid := range spectators {
		o.fabric.Send(cid, Event{Kind: EventGameUpdate, SessionID: o.sess.ID, Payload: o.snapshotFor(cid)})
	}
}

func (o *Orchestrator) broadcastEvent(kind EventKind, payload any) {
	o.fabric.Broadcast(o.sess.ID, Event{Kind: kind, SessionID: o.sess.ID, Payload: payload}, nil)
}

// settle folds a just-decided winner into the match, persists the result,
// invokes onSettled, and emits GameOver/MatchUpdate/MatchCompleted. Called
// with o.mu already held, after the engine transition that produced a
// winner; the persistence call itself happens after releasing the lock,
// per spec §6 ("never call persistence inside the session lock's critical
// mutation path").
func (o *Orchestrator) settle(winner domain.Color, class domain.WinClass, stakes int) {
	var result domain.GameResult
	if o.sess.Match != nil {
		result = o.sess.Match.RecordGameResult(winner, class, stakes/int(class))
	} else {
		result = domain.GameResult{Winner: winner, Class: class, Stakes: stakes}
	}
	if o.sess.Clock != nil {
		o.sess.Clock.Stop()
	}

	o.broadcastEvent(EventGameOver, result)
	if o.sess.Match != nil {
		o.broadcastEvent(EventMatchUpdate, o.sess.Match)
		if o.sess.Match.IsComplete() {
			o.broadcastEvent(EventMatchCompleted, o.sess.Match)
		}
	}

	go func() {
		if o.persistence == nil {
			return
		}
		ctx := context.Background()
		_ = o.persistence.AppendGameResult(ctx, o.sess.MatchID, ports.GameResultRecord{
			MatchID:       o.sess.MatchID,
			WinnerIsWhite: winner == domain.White,
			Class:         int(result.Class),
			Stakes:        result.Stakes,
			WasCrawford:   result.WasCrawford,
		})
	}()

	if o.onSettled != nil {
		go o.onSettled(o, result)
	}
}

// maybeScheduleBot schedules the Auto-Opponent Runner if the current
// player is automated, on its own goroutine rather than inline — spec
// §4.I requires this run off the triggering action's call stack and
// outside the session lock so bot "thinking time" never holds up a
// human's turn.
func (o *Orchestrator) maybeScheduleBot() {
	if _, over := o.sess.Engine.Winner(); over {
		return
	}
	current := o.sess.Engine.CurrentPlayer()
	agent, ok := o.bots[current]
	if !ok {
		return
	}
	go func() {
		time.Sleep(botThinkDelay)
		o.runBotTurn(agent)
	}()
}

var botThinkDelay = 400 * time.Millisecond

func (o *Orchestrator) runBotTurn(agent *bot.Agent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, over := o.sess.Engine.Winner(); over {
		return
	}
	if o.sess.Engine.CurrentPlayer() != agent.Color {
		return
	}
	if offerer, pending := o.sess.Engine.Cube().PendingOffer(); pending && offerer != agent.Color {
		responded, accepted := agent.RespondToPendingOffer(o.sess.Engine)
		if responded {
			if accepted {
				o.broadcastEvent(EventDoubleAccepted, agent.Color)
			}
			if w, ok := o.sess.Engine.Winner(); ok {
				_, class, stakes, _ := o.sess.Engine.GetGameResult()
				o.settle(w, class, stakes)
			}
			o.broadcastGameUpdate()
		}
		return
	}
	if len(o.sess.Engine.RemainingDice()) == 0 {
		if agent.MaybeOfferDouble(o.sess.Engine) {
			o.broadcastEvent(EventDoubleOffered, agent.Color)
			o.broadcastGameUpdate()
			return
		}
		o.sess.Engine.RollDice()
	}
	agent.PlayTurn(o.sess.Engine)
	o.sess.Touch()
	if w, ok := o.sess.Engine.Winner(); ok {
		_, class, stakes, _ := o.sess.Engine.GetGameResult()
		o.settle(w, class, stakes)
	} else if o.sess.Clock != nil {
		o.sess.Clock.StartTurn(o.sess.Engine.CurrentPlayer())
	}
	o.broadcastGameUpdate()
	o.maybeScheduleBot()
}
