package bot

import (
	"backgammon/internal/bot/internal"
	"backgammon/internal/domain"
)

// scoredBot plays the sequence of moves that maximizes internal.ScorePosition
// of the resulting board under tuning, re-evaluated every turn against the
// phase the position is currently in. RaceBot and ProBot are both
// instances of this pipeline, differing only by tuning.
type scoredBot struct {
	name   string
	tuning internal.BotTuning
}

// NewRaceBot returns the mid-tier phase-aware bot, mirroring the teacher's
// SmartBot.
func NewRaceBot() Brain { return &scoredBot{name: "race", tuning: RaceTuning} }

// NewProBot returns the top-tier bot, mirroring the teacher's GodBot.
func NewProBot() Brain { return &scoredBot{name: "pro", tuning: ProTuning} }

func (b *scoredBot) Name() string { return b.name }

func (b *scoredBot) ChooseMoves(e *domain.Engine, color domain.Color) []domain.Move {
	phase := internal.DeterminePhase(e.Board(), color)
	weights := b.tuning.ForPhase(phase)

	sequences := internal.GenerateSequences(e)
	best := sequences[0]
	bestScore := internal.ScorePosition(best.End, color, weights)
	for _, seq := range sequences[1:] {
		score := internal.ScorePosition(seq.End, color, weights)
		if score > bestScore {
			best, bestScore = seq, score
		}
	}

	var played []domain.Move
	for _, m := range best.Moves {
		if res := e.ExecuteMove(m); !res.OK {
			return played
		}
		played = append(played, m)
	}
	return played
}

func (b *scoredBot) ShouldOfferDouble(e *domain.Engine, color domain.Color) bool {
	lead := e.Board().PipCount(color.Other()) - e.Board().PipCount(color)
	return lead >= b.tuning.OfferPipLead
}

func (b *scoredBot) RespondToDouble(e *domain.Engine, color domain.Color) bool {
	deficit := e.Board().PipCount(color) - e.Board().PipCount(color.Other())
	return deficit <= b.tuning.AcceptPipDeficitMax
}
