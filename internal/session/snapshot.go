package session

import "backgammon/internal/domain"

// GamePhase classifies the session for the GameUpdate payload (spec §6).
type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"
	PhaseRolling  GamePhase = "rolling"
	PhaseMoving   GamePhase = "moving"
	PhaseDoubling GamePhase = "doubling"
	PhaseTerminal GamePhase = "terminal"
)

// PointView is one board point as rendered to a client.
type PointView struct {
	Point int          `json:"point"`
	Color domain.Color `json:"color"`
	Count int          `json:"count"`
}

// ChatEntry is one message in a session's bounded chat ring buffer.
type ChatEntry struct {
	PlayerID string `json:"playerId"`
	Text     string `json:"text"`
}

// StateSnapshot is the viewer-specific view produced by Session.GetState:
// the full board, bar/off, current player, remaining dice, whose turn,
// the viewer's own color (if any), the legal move set (only when the
// viewer may currently act), cube state, clock state, and game/match
// status (spec §4.E, §6).
type StateSnapshot struct {
	SessionID       string         `json:"sessionId"`
	MatchID         string         `json:"matchId,omitempty"`
	Points          []PointView    `json:"points"`
	CheckersOnBar   [2]int         `json:"checkersOnBar"`
	CheckersBornOff [2]int         `json:"checkersBornOff"`
	CurrentPlayer   domain.Color   `json:"currentPlayer"`
	RemainingDice   []int          `json:"remainingDice"`
	ViewerColor     *domain.Color  `json:"viewerColor,omitempty"`
	ValidMoves      []domain.Move  `json:"validMoves,omitempty"`
	CubeValue       int            `json:"cubeValue"`
	CubeOwner       domain.CubeOwner `json:"cubeOwner"`
	PendingOfferBy  *domain.Color  `json:"pendingCubeOffer,omitempty"`
	MatchScoreWhite int            `json:"matchScoreWhite"`
	MatchScoreRed   int            `json:"matchScoreRed"`
	IsCrawfordGame  bool           `json:"isCrawfordGame"`
	Clock           ClockState     `json:"clock"`
	Phase           GamePhase      `json:"gamePhase"`
	Winner          *domain.Color  `json:"winner,omitempty"`
	AnalysisMode    bool           `json:"analysisMode"`
}
