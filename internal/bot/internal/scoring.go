package internal

import "backgammon/internal/domain"

// PhaseWeights tune how a resulting board position is scored for a
// specific GamePhase. Higher weights push the bot toward that aspect of
// the position; the sign of PipWeight and BlotExposureWeight make pip
// progress good and blot exposure bad.
type PhaseWeights struct {
	PipWeight           float64
	BlotExposureWeight  float64
	PrimeWeight         float64
	AnchorWeight        float64
	HomeBoardWeight     float64
	BearOffWeight       float64
	HitWeight           float64
	BarEntryPenalty     float64
}

// BotTuning groups the per-phase weights plus the doubling thresholds used
// by respondToDouble/offerDouble decisions.
type BotTuning struct {
	Opening PhaseWeights
	Mid     PhaseWeights
	BearOff PhaseWeights

	// OfferPipLead is the minimum pip-count advantage (opponent pips minus
	// own pips) a bot requires before offering a double.
	OfferPipLead int
	// AcceptPipDeficitMax is the largest pip deficit (own pips minus
	// opponent pips) a bot will still accept a double at.
	AcceptPipDeficitMax int
}

// ForPhase returns the weights for the given phase.
func (t BotTuning) ForPhase(p GamePhase) PhaseWeights {
	switch p {
	case PhaseOpening:
		return t.Opening
	case PhaseBearOff:
		return t.BearOff
	default:
		return t.Mid
	}
}

// primeLength returns the length of the longest run of consecutive points
// in color's home-to-outfield direction held by two or more of color's
// checkers, starting the scan from color's own back checkers toward home.
// A prime of six blocks the opponent from escaping entirely.
func primeLength(b *domain.Board, color domain.Color) int {
	best, run := 0, 0
	// Scan points in the direction color advances through, 24..1 for
	// White, 1..24 for Red, so consecutive indices in that walk correspond
	// to consecutive blocking points.
	points := make([]int, 0, 24)
	if color == domain.White {
		for i := 24; i >= 1; i-- {
			points = append(points, i)
		}
	} else {
		for i := 1; i <= 24; i++ {
			points = append(points, i)
		}
	}
	for _, i := range points {
		col, ok := b.Point(i).Occupant()
		if ok && col == color && b.Point(i).Count >= 2 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// blotExposure counts color's blots (single checkers) that sit within
// direct range (1-6 pips ahead, in the opponent's direction of travel) of
// an opposing checker, or any blot while the opponent has a checker on the
// bar — a cheap proxy for hit risk without a full probability model.
func blotExposure(b *domain.Board, color domain.Color) int {
	exposure := 0
	for i := 1; i <= 24; i++ {
		p := b.Point(i)
		col, ok := p.Occupant()
		if !ok || col != color || p.Count != 1 {
			continue
		}
		exposed := false
		if b.Bar(color.Other()) > 0 {
			exposed = true
		}
		for d := 1; d <= 6 && !exposed; d++ {
			behind, onBoard := color.Advance(i, d)
			if !onBoard {
				continue
			}
			if bc, bok := b.Point(behind).Occupant(); bok && bc == color.Other() {
				exposed = true
			}
		}
		if exposed {
			exposure++
		}
	}
	return exposure
}

// anchorCount counts color's made points (two or more checkers) sitting in
// the opponent's home board — a defensive asset late in a race.
func anchorCount(b *domain.Board, color domain.Color) int {
	lo, hi := color.Other().HomeRange()
	count := 0
	for i := lo; i <= hi; i++ {
		col, ok := b.Point(i).Occupant()
		if ok && col == color && b.Point(i).Count >= 2 {
			count++
		}
	}
	return count
}

// homeBoardPoints counts color's made points within its own home board.
func homeBoardPoints(b *domain.Board, color domain.Color) int {
	lo, hi := color.HomeRange()
	count := 0
	for i := lo; i <= hi; i++ {
		col, ok := b.Point(i).Occupant()
		if ok && col == color && b.Point(i).Count >= 2 {
			count++
		}
	}
	return count
}

// ScorePosition evaluates b from color's perspective under weights w.
// Higher is better for color. This is a hand-tuned linear combination of
// cheap structural features, not a rollout or neural evaluator — the
// corresponding evaluator/NN plugin point is explicitly out of scope.
func ScorePosition(b *domain.Board, color domain.Color, w PhaseWeights) float64 {
	pipLead := float64(b.PipCount(color.Other()) - b.PipCount(color))
	score := pipLead * w.PipWeight
	score -= float64(blotExposure(b, color)) * w.BlotExposureWeight
	score += float64(primeLength(b, color)) * w.PrimeWeight
	score += float64(anchorCount(b, color)) * w.AnchorWeight
	score += float64(homeBoardPoints(b, color)) * w.HomeBoardWeight
	score += float64(b.Off(color)) * w.BearOffWeight
	score -= float64(b.Bar(color)) * w.BarEntryPenalty
	return score
}
