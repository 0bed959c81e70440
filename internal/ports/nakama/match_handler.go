package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"

	"backgammon/internal/bot"
	"backgammon/internal/config"
	"backgammon/internal/domain"
	"backgammon/internal/ports"
	"backgammon/internal/session"
)

// MatchNameBackgammon is the authoritative match handler name registered
// with Nakama, mirroring the teacher's MatchNameTienLen constant.
const MatchNameBackgammon = "backgammon_match"

// matchHandler implements runtime.Match. It is intentionally thin: almost
// all state and rule logic lives in the Nakama-agnostic internal/session
// and internal/domain packages (spec §1's kernel), grounded on the
// teacher's own matchHandler (Server/internal/ports/nakama/match_handler.go)
// being a dispatch shim over internal/app.Service.
type matchHandler struct {
	registry    *session.Registry
	persistence ports.Persistence
}

// registry and persistence are the process-wide Registry and Persistence
// gateway, set once by InitModule before RegisterMatch is called. NewMatch
// must match Nakama's fixed factory signature exactly, so it cannot close
// over extra parameters; the teacher's own NewMatch reaches for package
// globals (vivoxService) the same way.
var (
	registry    *session.Registry
	persistence ports.Persistence
)

// NewMatch is the factory function registered with Nakama, mirroring the
// teacher's NewMatch in match_handler.go.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{registry: registry, persistence: persistence}, nil
}

// outboundMsg is one event queued by the session.Fabric adapter for
// delivery on the next MatchLoop tick, since runtime.MatchDispatcher is
// only valid for the duration of the Nakama callback that receives it and
// the kernel's Orchestrator may emit events from goroutines outside that
// callback (bot turns, the Time Controller scheduler) per spec §5's
// suspension-point model.
type outboundMsg struct {
	target runtime.Presence
	opcode int64
	data   []byte
}

// matchState is the interface{} Nakama threads through every callback.
type matchState struct {
	sessionID string
	orch      *session.Orchestrator
	fabric    *session.InMemoryFabric
	matchID   string

	mu        sync.Mutex
	presences map[string]runtime.Presence // connection (presence session) id -> Presence
	outbox    []outboundMsg

	targetScore int
	botTier     bot.Tier
}

const botPlayerID = "__bot__"

func (ms *matchState) deliver(connectionID string, evt session.Event) {
	ms.mu.Lock()
	presence, ok := ms.presences[connectionID]
	opcode := eventOpcode[string(evt.Kind)]
	data, err := json.Marshal(evt.Payload)
	if err != nil {
		ms.mu.Unlock()
		return
	}
	if ok {
		ms.outbox = append(ms.outbox, outboundMsg{target: presence, opcode: opcode, data: data})
	}
	ms.mu.Unlock()
}

func (ms *matchState) drain() []outboundMsg {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := ms.outbox
	ms.outbox = nil
	return out
}

// MatchInit creates the Session/Orchestrator for one game and installs an
// InMemoryFabric whose delivery function buffers into matchState.outbox
// (spec §4.E: "created by orchestrator at game start").
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.Get()

	targetScore := config.EnvIntOrOs(env, "backgammon_target_score", cfg.DefaultTargetScore)
	if v, ok := params["targetScore"].(float64); ok {
		targetScore = int(v)
	}
	botTier := bot.Tier(config.EnvOrOs(env, "backgammon_bot_tier"))
	if botTier == "" {
		botTier = bot.Tier(cfg.BotTier)
	}

	ms := &matchState{
		sessionID:   session.NewSessionID(),
		matchID:     session.NewSessionID(),
		presences:   make(map[string]runtime.Presence),
		targetScore: targetScore,
		botTier:     botTier,
	}

	dice := domain.NewDice(nil)
	engine := domain.NewEngine(dice, false)
	match := domain.NewMatch(targetScore, cfg.CrawfordEnabled)

	var clockMode session.ClockMode
	var clockCfg config.ClockConfig
	if cfg.Clock.Mode == "chicago_point" {
		clockMode = session.ClockChicagoPoint
		clockCfg = cfg.Clock
	}
	var clock *session.Clock
	if clockMode != session.ClockNone {
		clock = session.NewClock(clockMode, clockCfg.Delay(), clockCfg.ReservePerSide(targetScore))
	}

	sess := session.NewSession(ms.sessionID, engine, match, clock)
	sess.MatchID = ms.matchID

	bots := map[domain.Color]*bot.Agent{}
	vsBot, _ := params["vsBot"].(bool)
	if vsBot {
		botColor, _ := sess.AddPlayerConnection(botPlayerID, botPlayerID)
		bots[botColor] = bot.NewAgent(botTier, botColor)
	}

	fabric := session.NewInMemoryFabric(ms.deliver)
	ms.fabric = fabric
	ms.orch = mh.registry.CreateSession(sess, fabric, mh.persistence, bots, clockMode, clockCfg)

	labelBytes, _ := json.Marshal(map[string]any{"open": true, "game": "backgammon", "vsBot": vsBot})
	const tickRateHz = 4 // 250ms tick, matching the Time Controller's tickInterval (spec §4.J)
	return ms, tickRateHz, string(labelBytes)
}

// MatchJoinAttempt allows a join when a seat is open or the joining user
// is already seated (reconnection).
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms := state.(*matchState)
	sess := ms.orch.Session()
	if _, seated := sess.Color(presence.GetUserId()); seated {
		return state, true, ""
	}
	if sess.IsFull() {
		return state, false, "match full"
	}
	return state, true, ""
}

// MatchJoin binds each joining presence to a color (or spectator) via
// JoinGame, registers it with the Fabric, and tracks the presence for
// targeted delivery.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms := state.(*matchState)

	for _, p := range presences {
		connID := p.GetSessionId()
		ms.mu.Lock()
		ms.presences[connID] = p
		ms.mu.Unlock()

		ms.fabric.Register(ms.sessionID, connID)
		mh.registry.BindConnection(ms.sessionID, connID)
		if _, err := ms.orch.JoinGame(p.GetUserId(), connID); err != nil {
			logger.Warn("MatchJoin: %s failed to join %s: %v", p.GetUserId(), ms.sessionID, err)
		}
	}
	mh.flush(dispatcher, ms)
	return state
}

// MatchLeave detaches each leaving presence. A session with no seated
// players left and a game that never started is evicted immediately
// rather than waiting for the Registry's TTL sweep (spec §4.F's leaveGame
// row: "if last connection and game not started -> evict").
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms := state.(*matchState)

	for _, p := range presences {
		connID := p.GetSessionId()
		ms.orch.LeaveGame(connID)
		mh.registry.UnbindConnection(connID)
		ms.fabric.Unregister(ms.sessionID, connID)
		ms.mu.Lock()
		delete(ms.presences, connID)
		ms.mu.Unlock()
	}
	mh.flush(dispatcher, ms)

	sess := ms.orch.Session()
	if !sess.IsFull() && sess.ConnectionCount() == 0 {
		mh.registry.Evict(ms.sessionID)
		return nil
	}
	return state
}

// MatchLoop dispatches each inbound action to the Orchestrator and drains
// the outbox built up since the last tick (spec §4.J's scheduler wakes
// independently on the same cadence via internal/session.Scheduler, which
// ticks this session's Clock and enqueues a timeoutOccurred action — the
// resulting broadcast is flushed here too).
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms := state.(*matchState)

	for _, msg := range messages {
		mh.handleMessage(ms, logger, msg)
	}
	mh.flush(dispatcher, ms)
	return state
}

func (mh *matchHandler) handleMessage(ms *matchState, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	connID := msg.GetSessionId()
	data := msg.GetData()

	var actionErr *session.ActionError
	switch msg.GetOpCode() {
	case OpJoinGame:
		_, actionErr = ms.orch.JoinGame(userID, connID)
	case OpRollDice:
		_, actionErr = ms.orch.RollDice(userID)
	case OpMakeMove:
		var req moveActionRequest
		if jerr := json.Unmarshal(data, &req); jerr != nil {
			return
		}
		_, actionErr = ms.orch.MakeMove(userID, domain.Move{From: req.From, To: req.To, Die: req.Die})
	case OpEndTurn:
		_, actionErr = ms.orch.EndTurn(userID)
	case OpUndoLastMove:
		_, actionErr = ms.orch.UndoLastMove(userID)
	case OpOfferDouble:
		_, actionErr = ms.orch.OfferDouble(userID)
	case OpAcceptDouble:
		_, actionErr = ms.orch.AcceptDouble(userID)
	case OpDeclineDouble:
		_, actionErr = ms.orch.DeclineDouble(userID)
	case OpAbandonGame:
		_, actionErr = ms.orch.AbandonGame(userID)
	case OpRequestAnalysis:
		_, actionErr = ms.orch.RequestAnalysis(connID)
	case OpLeaveAnalysis:
		_, actionErr = ms.orch.LeaveAnalysis(connID)
	case OpPostChat:
		var req chatActionRequest
		if jerr := json.Unmarshal(data, &req); jerr != nil {
			return
		}
		actionErr = ms.orch.PostChat(userID, req.Text)
	default:
		logger.Warn("MatchLoop: unknown opcode %d from %s", msg.GetOpCode(), userID)
		return
	}
	if actionErr != nil {
		logger.Debug("MatchLoop: action from %s rejected: %v", userID, actionErr)
		ms.deliver(connID, session.Event{Kind: session.EventError, SessionID: ms.sessionID, Payload: errorPayload{
			Kind:    actionErr.Kind.String(),
			Reason:  string(actionErr.Reason),
			Message: actionErr.Error(),
		}})
	}
}

// flush sends every buffered outbound event through dispatcher, in
// enqueue order, preserving per-connection emission order (spec §4.H).
func (mh *matchHandler) flush(dispatcher runtime.MatchDispatcher, ms *matchState) {
	for _, m := range ms.drain() {
		_ = dispatcher.BroadcastMessage(m.opcode, m.data, []runtime.Presence{m.target}, nil, true)
	}
}

// MatchTerminate checkpoints and evicts the session on match shutdown.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	ms := state.(*matchState)
	if mh.persistence != nil {
		sess := ms.orch.Session()
		_ = mh.persistence.SaveGame(ctx, &ports.GameSnapshot{
			GameID:        sess.ID,
			MatchID:       sess.MatchID,
			PositionID:    sess.Engine.PositionID(),
			CurrentColor:  int(sess.Engine.CurrentPlayer()),
			RemainingDice: sess.Engine.RemainingDice(),
			CubeValue:     sess.Engine.Cube().Value(),
			CubeOwner:     int(sess.Engine.Cube().Owner()),
		})
	}
	mh.registry.Evict(ms.sessionID)
	return state
}

// MatchSignal is unused; the kernel has no out-of-band signal traffic.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule,
	dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
