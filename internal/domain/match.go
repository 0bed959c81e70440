package domain

// GameResult records the outcome of one game within a Match.
type GameResult struct {
	Winner      Color
	Class       WinClass
	Stakes      int
	WasCrawford bool
}

// Match tracks cumulative score across games played to a target, including
// the single-use Crawford rule: the game immediately after one lost by a
// side sitting at targetScore-1 is played with doubling disabled.
type Match struct {
	targetScore      int
	crawfordEnabled  bool
	score            [2]int
	results          []GameResult
	isCrawfordGame   bool
	crawfordPlayed   bool
	complete         bool
	winner           *Color
}

// NewMatch starts a match to targetScore points. crawfordEnabled toggles
// the Crawford rule (on by default in normal match play).
func NewMatch(targetScore int, crawfordEnabled bool) *Match {
	return &Match{targetScore: targetScore, crawfordEnabled: crawfordEnabled}
}

// TargetScore returns the match's winning score.
func (m *Match) TargetScore() int { return m.targetScore }

// Score returns the current score for c.
func (m *Match) Score(c Color) int { return m.score[c] }

// IsCrawfordGame reports whether the next/current game has doubling
// disabled under the Crawford rule.
func (m *Match) IsCrawfordGame() bool { return m.isCrawfordGame }

// IsComplete reports whether the match has reached its target score.
func (m *Match) IsComplete() bool { return m.complete }

// MatchWinner returns the match winner, if the match is complete.
func (m *Match) MatchWinner() (Color, bool) {
	if m.winner == nil {
		return White, false
	}
	return *m.winner, true
}

// Results returns every recorded game result, in play order.
func (m *Match) Results() []GameResult {
	out := make([]GameResult, len(m.results))
	copy(out, m.results)
	return out
}

// RecordGameResult folds one completed game's outcome into the match score,
// advances the Crawford-game flag per the rule (set at most once, for the
// game right after one whose loser's score equals targetScore-1), and marks the
// match complete if a side has now reached targetScore.
func (m *Match) RecordGameResult(winner Color, class WinClass, cubeValue int) GameResult {
	stakes := int(class) * cubeValue
	wasCrawford := m.isCrawfordGame
	m.score[winner] += stakes
	result := GameResult{Winner: winner, Class: class, Stakes: stakes, WasCrawford: wasCrawford}
	m.results = append(m.results, result)

	loser := winner.Other()
	if wasCrawford {
		m.crawfordPlayed = true
		m.isCrawfordGame = false
	} else if m.crawfordEnabled && !m.crawfordPlayed && m.score[loser] == m.targetScore-1 {
		m.isCrawfordGame = true
	}

	if m.score[winner] >= m.targetScore {
		m.complete = true
		w := winner
		m.winner = &w
	}
	return result
}
