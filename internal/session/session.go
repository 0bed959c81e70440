package session

import (
	"sync"
	"time"

	"backgammon/internal/domain"
)

const maxChatHistory = 100

// Session is the live container for one game plus its external-world
// bindings: players, connections, engine, clock, chat. It is mutated only
// by the Orchestrator under its per-session lock (spec §4.E); the
// connection bookkeeping here uses its own sync.RWMutex so a read-only
// viewer lookup (e.g. presence checks from the transport adapter) never
// has to wait on game-state mutation, grounded on the teacher pack's
// room.go connection-map pattern.
type Session struct {
	ID      string
	MatchID string

	Engine *domain.Engine
	Match  *domain.Match

	connMu      sync.RWMutex
	playerID    [2]string          // index by domain.Color
	connections [2]map[string]bool // live connection ids per color
	spectators  map[string]bool

	AnalysisMode  bool
	AnalysisOwner string

	Clock *Clock

	CreatedAt      time.Time
	lastActivityMu sync.Mutex
	lastActivityAt time.Time

	chatMu  sync.Mutex
	chat    []ChatEntry
}

// NewSession constructs a Session for a freshly created game. The engine
// and match are supplied by the orchestrator, which owns their
// construction (spec: "Session exclusively owns its Engine").
func NewSession(id string, engine *domain.Engine, match *domain.Match, clock *Clock) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Engine:         engine,
		Match:          match,
		connections:    [2]map[string]bool{{}, {}},
		spectators:     make(map[string]bool),
		Clock:          clock,
		CreatedAt:      now,
		lastActivityAt: now,
	}
}

// Touch records activity, resetting the session's TTL eviction clock.
func (s *Session) Touch() {
	s.lastActivityMu.Lock()
	s.lastActivityAt = time.Now()
	s.lastActivityMu.Unlock()
}

// LastActivity returns the last time Touch was called.
func (s *Session) LastActivity() time.Time {
	s.lastActivityMu.Lock()
	defer s.lastActivityMu.Unlock()
	return s.lastActivityAt
}

// AddPlayerConnection binds connectionID to playerID's color. If playerID
// does not yet occupy a color, it is assigned the first open seat,
// returning that color; reconnection (playerID already seated) adds an
// additional connection id to the same color.
func (s *Session) AddPlayerConnection(playerID, connectionID string) (domain.Color, bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for _, c := range []domain.Color{domain.White, domain.Red} {
		if s.playerID[c] == playerID {
			s.connections[c][connectionID] = true
			return c, true
		}
	}
	for _, c := range []domain.Color{domain.White, domain.Red} {
		if s.playerID[c] == "" {
			s.playerID[c] = playerID
			s.connections[c][connectionID] = true
			return c, true
		}
	}
	s.spectators[connectionID] = true
	return domain.White, false
}

// RemoveConnection detaches connectionID from whatever seat or spectator
// set it belongs to.
func (s *Session) RemoveConnection(connectionID string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for _, c := range []domain.Color{domain.White, domain.Red} {
		delete(s.connections[c], connectionID)
	}
	delete(s.spectators, connectionID)
}

// IsFull reports whether both colors have an assigned player.
func (s *Session) IsFull() bool {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.playerID[domain.White] != "" && s.playerID[domain.Red] != ""
}

// ConnectionCount returns the total number of live connections (players
// and spectators).
func (s *Session) ConnectionCount() int {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	n := len(s.spectators)
	for _, c := range []domain.Color{domain.White, domain.Red} {
		n += len(s.connections[c])
	}
	return n
}

// SpectatorCount returns the number of spectator connections.
func (s *Session) SpectatorCount() int {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return len(s.spectators)
}

// Color returns the color playerID occupies, if any.
func (s *Session) Color(playerID string) (domain.Color, bool) {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for _, c := range []domain.Color{domain.White, domain.Red} {
		if s.playerID[c] == playerID {
			return c, true
		}
	}
	return domain.White, false
}

// PlayerID returns the player id occupying color, if any.
func (s *Session) PlayerID(c domain.Color) string {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.playerID[c]
}

// ConnectionsFor returns a copy of the live connection ids for color.
func (s *Session) ConnectionsFor(c domain.Color) []string {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	out := make([]string, 0, len(s.connections[c]))
	for cid := range s.connections[c] {
		out = append(out, cid)
	}
	return out
}

// IsPlayerTurn reports whether playerID currently occupies the seat whose
// turn it is.
func (s *Session) IsPlayerTurn(playerID string) bool {
	c, ok := s.Color(playerID)
	return ok && c == s.Engine.CurrentPlayer()
}

// PostChat appends text from playerID to the bounded chat ring buffer.
func (s *Session) PostChat(playerID, text string) ChatEntry {
	s.chatMu.Lock()
	defer s.chatMu.Unlock()
	entry := ChatEntry{PlayerID: playerID, Text: text}
	s.chat = append(s.chat, entry)
	if len(s.chat) > maxChatHistory {
		s.chat = s.chat[len(s.chat)-maxChatHistory:]
	}
	return entry
}

// ChatHistory returns a copy of the bounded chat ring buffer.
func (s *Session) ChatHistory() []ChatEntry {
	s.chatMu.Lock()
	defer s.chatMu.Unlock()
	return append([]ChatEntry(nil), s.chat...)
}

// phase derives the GameUpdate phase field from engine/cube state.
func (s *Session) phase() GamePhase {
	if _, ok := s.Engine.Winner(); ok {
		return PhaseTerminal
	}
	if _, pending := s.Engine.Cube().PendingOffer(); pending {
		return PhaseDoubling
	}
	if len(s.Engine.RemainingDice()) == 0 {
		return PhaseRolling
	}
	return PhaseMoving
}

// GetState produces viewerConnectionID's StateSnapshot: the full board,
// whose turn, the viewer's own color (if any), and the legal move set
// only when the viewer is entitled to see it — the current player in a
// normal game, or the analysis owner in analysis mode (spec §4.E).
func (s *Session) GetState(viewerConnectionID string) StateSnapshot {
	b := s.Engine.Board()
	points := make([]PointView, 0, 24)
	for i := 1; i <= 24; i++ {
		p := b.Point(i)
		col, _ := p.Occupant()
		points = append(points, PointView{Point: i, Color: col, Count: p.Count})
	}

	snap := StateSnapshot{
		SessionID:       s.ID,
		MatchID:         s.MatchID,
		Points:          points,
		CheckersOnBar:   [2]int{b.Bar(domain.White), b.Bar(domain.Red)},
		CheckersBornOff: [2]int{b.Off(domain.White), b.Off(domain.Red)},
		CurrentPlayer:   s.Engine.CurrentPlayer(),
		RemainingDice:   s.Engine.RemainingDice(),
		CubeValue:       s.Engine.Cube().Value(),
		CubeOwner:       s.Engine.Cube().Owner(),
		Phase:           s.phase(),
		AnalysisMode:    s.AnalysisMode,
	}
	if s.Match != nil {
		snap.MatchScoreWhite = s.Match.Score(domain.White)
		snap.MatchScoreRed = s.Match.Score(domain.Red)
		snap.IsCrawfordGame = s.Match.IsCrawfordGame()
	}
	if by, pending := s.Engine.Cube().PendingOffer(); pending {
		snap.PendingOfferBy = &by
	}
	if w, ok := s.Engine.Winner(); ok {
		snap.Winner = &w
	}
	if s.Clock != nil {
		snap.Clock = s.Clock.State()
	}

	viewerColor, isPlayer := s.connectionColor(viewerConnectionID)
	if isPlayer {
		snap.ViewerColor = &viewerColor
	}
	canSeeMoves := (isPlayer && viewerColor == s.Engine.CurrentPlayer() && !s.AnalysisMode) ||
		(s.AnalysisMode && s.AnalysisOwner == viewerConnectionID)
	if canSeeMoves {
		snap.ValidMoves = s.Engine.GetValidMoves()
	}
	return snap
}

func (s *Session) connectionColor(connectionID string) (domain.Color, bool) {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for _, c := range []domain.Color{domain.White, domain.Red} {
		if s.connections[c][connectionID] {
			return c, true
		}
	}
	return domain.White, false
}
