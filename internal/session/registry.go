package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"backgammon/internal/bot"
	"backgammon/internal/config"
	"backgammon/internal/domain"
	"backgammon/internal/ports"
)

// binding is everything the Registry needs to rebuild a continuing match's
// next game without the caller re-supplying it: the Fabric, Persistence,
// and bot seats stay fixed for a match's lifetime even as the Session
// backing an individual game is replaced (spec §3: "Match shares identity
// with all Sessions belonging to it; a Session holds a weak reference
// (id only)").
type binding struct {
	orch        *Orchestrator
	fabric      Fabric
	persistence ports.Persistence
	bots        map[domain.Color]*bot.Agent
	clockMode   ClockMode
	clockCfg    config.ClockConfig
}

// Registry is the Session Registry (spec §4.G): lookup by session id and
// by connection id, lifecycle, and TTL eviction. Its own lock is held only
// long enough to read or mutate the two maps below — it is never held
// while a session's Orchestrator lock is held, and the reverse is also
// true, satisfying spec §5's lock-order rule (Registry > Session, never
// nested).
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*binding
	connections map[string]string // connectionID -> sessionID

	sweepInterval time.Duration
	ttl           time.Duration

	scheduler *Scheduler

	stop chan struct{}
	once sync.Once
}

// NewRegistry returns an empty Registry and starts its background TTL
// sweeper, grounded on the lease-store sweeper pattern in the retrieval
// pack's xg2g session manager (SweeperConfig{Interval, SessionRetention}
// driving a periodic goroutine), generalized from a distributed lease
// store to in-process locks since cross-process session replication is an
// explicit Non-goal (spec §1).
func NewRegistry(sweepInterval, ttl time.Duration) *Registry {
	r := &Registry{
		sessions:      make(map[string]*binding),
		connections:   make(map[string]string),
		sweepInterval: sweepInterval,
		ttl:           ttl,
		scheduler:     NewScheduler(),
		stop:          make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Close stops the sweeper and the Time Controller scheduler. Tests and
// embedded CLIs that construct a throwaway Registry should call this to
// avoid leaking goroutines.
func (r *Registry) Close() {
	r.once.Do(func() {
		close(r.stop)
		r.scheduler.Close()
	})
}

// CreateSession registers a freshly constructed Session under its own ID,
// wraps it in an Orchestrator, and returns the Orchestrator. fabric,
// persistence, and bots are retained so a later game in the same match can
// be created by onGameSettled without the caller supplying them again.
func (r *Registry) CreateSession(sess *Session, fabric Fabric, persistence ports.Persistence, bots map[domain.Color]*bot.Agent, clockMode ClockMode, clockCfg config.ClockConfig) *Orchestrator {
	orch := NewOrchestrator(sess, fabric, persistence, bots, r.onGameSettled)

	r.mu.Lock()
	r.sessions[sess.ID] = &binding{
		orch:        orch,
		fabric:      fabric,
		persistence: persistence,
		bots:        bots,
		clockMode:   clockMode,
		clockCfg:    clockCfg,
	}
	r.mu.Unlock()
	r.scheduler.Register(sess.ID, sess.Clock, orch)
	return orch
}

// NewSessionID returns a fresh, globally unique session id.
func NewSessionID() string { return uuid.NewString() }

// Get resolves a session id to its Orchestrator.
func (r *Registry) Get(sessionID string) (*Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return b.orch, true
}

// GetByConnection resolves a connection id (previously bound via
// BindConnection) to its Orchestrator.
func (r *Registry) GetByConnection(connectionID string) (*Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionID, ok := r.connections[connectionID]
	if !ok {
		return nil, false
	}
	b, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return b.orch, true
}

// BindConnection records that connectionID now belongs to sessionID, so a
// later transport event carrying only the connection id (e.g. a leave
// notification) can be routed without the caller tracking session ids
// itself.
func (r *Registry) BindConnection(sessionID, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[connectionID] = sessionID
}

// UnbindConnection forgets connectionID's session binding. Called once a
// connection disconnects for good (not merely a reconnect-in-progress).
func (r *Registry) UnbindConnection(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.connections, connectionID)
}

// Evict removes sessionID from the registry and stops its Orchestrator's
// mailbox drain goroutine. Called by the sweeper, or directly from the
// admin surface's force-evict operation.
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	b, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
		for cid, sid := range r.connections {
			if sid == sessionID {
				delete(r.connections, cid)
			}
		}
	}
	r.mu.Unlock()
	if ok {
		r.scheduler.Unregister(sessionID)
		b.orch.Close()
	}
}

// SessionIDs returns every live session id, for the admin list operation.
func (r *Registry) SessionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}

// sweep runs until Close, evicting sessions that are either terminal or
// have zero live connections and have been idle past the TTL (spec §4.G).
func (r *Registry) sweep() {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweepOnce()
		case <-r.stop:
			return
		}
	}
}

func (r *Registry) sweepOnce() {
	now := time.Now()
	var candidates []string
	r.mu.RLock()
	for id, b := range r.sessions {
		sess := b.orch.Session()
		if now.Sub(sess.LastActivity()) < r.ttl {
			continue
		}
		_, terminal := sess.Engine.Winner()
		if terminal || sess.ConnectionCount() == 0 {
			candidates = append(candidates, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range candidates {
		r.checkpoint(id)
		r.Evict(id)
	}
}

// checkpoint pushes a final snapshot through the Persistence Gateway
// before eviction (spec §4.G, §6). It never holds the registry lock or a
// session lock while calling persistence, matching §6's "never call
// persistence inside the session lock's critical mutation path".
func (r *Registry) checkpoint(sessionID string) {
	r.mu.RLock()
	b, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok || b.persistence == nil {
		return
	}
	sess := b.orch.Session()
	snap := &ports.GameSnapshot{
		GameID:        sess.ID,
		MatchID:       sess.MatchID,
		PositionID:    sess.Engine.PositionID(),
		CurrentColor:  int(sess.Engine.CurrentPlayer()),
		RemainingDice: sess.Engine.RemainingDice(),
		CubeValue:     sess.Engine.Cube().Value(),
		CubeOwner:     int(sess.Engine.Cube().Owner()),
	}
	_ = b.persistence.SaveGame(context.Background(), snap)
}

// onGameSettled is the GameSettledFunc every Orchestrator created through
// this Registry is wired with (spec §4.F step 3: "either create the next
// game's session or mark the match complete"). If the match just
// completed, there is nothing further to do — the session stays
// registered until the sweeper reclaims it. Otherwise a fresh Session for
// the next game is built from the same Match, Fabric, Persistence, and
// bot seats, every seated player's connections are migrated onto it, and
// the old session is evicted. Spectator connections are not migrated.
func (r *Registry) onGameSettled(o *Orchestrator, _ domain.GameResult) {
	sess := o.Session()
	if sess.Match == nil || sess.Match.IsComplete() {
		return
	}

	r.mu.RLock()
	b, ok := r.sessions[sess.ID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	dice := domain.NewDice(nil)
	engine := domain.NewEngine(dice, sess.Match.IsCrawfordGame())
	var clock *Clock
	if b.clockMode != ClockNone {
		clock = NewClock(b.clockMode, b.clockCfg.Delay(), b.clockCfg.ReservePerSide(sess.Match.TargetScore()))
	}

	next := NewSession(NewSessionID(), engine, sess.Match, clock)
	for _, c := range []domain.Color{domain.White, domain.Red} {
		if pid := sess.PlayerID(c); pid != "" {
			for _, cid := range sess.ConnectionsFor(c) {
				next.AddPlayerConnection(pid, cid)
				r.BindConnection(next.ID, cid)
			}
		}
	}

	nextOrch := r.CreateSession(next, b.fabric, b.persistence, b.bots, b.clockMode, b.clockCfg)
	if clock != nil {
		clock.StartTurn(engine.CurrentPlayer())
	}
	nextOrch.broadcastEvent(EventGameStart, nil)
	nextOrch.broadcastGameUpdate()
	nextOrch.maybeScheduleBot()

	r.Evict(sess.ID)
}
