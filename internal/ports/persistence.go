// Package ports declares the narrow external interfaces the core kernel
// consumes but does not implement: persistent storage and identity. Both
// are explicitly out of scope per the kernel's own boundary — concrete
// adapters (a database, an auth service) live outside this module; only a
// non-production in-memory reference implementation ships here, under
// internal/ports/memory.
package ports

import "context"

// GameSnapshot is the durable form of one session's game, written at game
// start, game terminal, and session eviction.
type GameSnapshot struct {
	GameID       string
	MatchID      string
	PositionID   string
	CurrentColor int
	RemainingDice []int
	CubeValue    int
	CubeOwner    int
}

// MatchRecord is the durable form of a match: target score, running score,
// and completed game results.
type MatchRecord struct {
	MatchID       string
	TargetScore   int
	ScoreWhite    int
	ScoreRed      int
	IsComplete    bool
	WinnerIsWhite bool
}

// GameResultRecord is one completed game appended to a match's history.
type GameResultRecord struct {
	MatchID     string
	WinnerIsWhite bool
	Class       int
	Stakes      int
	WasCrawford bool
}

// Persistence is the Persistence Gateway boundary (spec §6). Every method
// must be idempotent on retry: the orchestrator may call appendGameResult
// or saveGame again after a transport failure with no guarantee the first
// call didn't land. The kernel never calls these from inside a session's
// lock; snapshots are captured under the lock and written after releasing
// it.
type Persistence interface {
	LoadMatch(ctx context.Context, matchID string) (*MatchRecord, error)
	SaveMatch(ctx context.Context, m *MatchRecord) error
	LoadGame(ctx context.Context, gameID string) (*GameSnapshot, error)
	SaveGame(ctx context.Context, snap *GameSnapshot) error
	AppendGameResult(ctx context.Context, matchID string, result GameResultRecord) error
}
