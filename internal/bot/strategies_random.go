package bot

import "backgammon/internal/domain"

// RandomBot plays the cheapest viable tier: it picks uniformly among the
// legal move at each step and only ever responds to the cube off a fixed
// pip-count threshold. It grounds the teacher's cheapest StandardBot tier.
type RandomBot struct {
	rand func(n int) int
}

// NewRandomBot returns a RandomBot. rand is a [0,n) integer source; pass
// nil to use the package-level default source.
func NewRandomBot(rand func(n int) int) *RandomBot {
	if rand == nil {
		rand = defaultIntn
	}
	return &RandomBot{rand: rand}
}

func (b *RandomBot) Name() string { return "random" }

func (b *RandomBot) ChooseMoves(e *domain.Engine, color domain.Color) []domain.Move {
	var played []domain.Move
	for {
		valid := e.GetValidMoves()
		if len(valid) == 0 {
			return played
		}
		m := valid[b.rand(len(valid))]
		if res := e.ExecuteMove(m); !res.OK {
			return played
		}
		played = append(played, m)
	}
}

func (b *RandomBot) ShouldOfferDouble(e *domain.Engine, color domain.Color) bool {
	return e.Board().PipCount(color.Other())-e.Board().PipCount(color) >= 25
}

func (b *RandomBot) RespondToDouble(e *domain.Engine, color domain.Color) bool {
	return e.Board().PipCount(color)-e.Board().PipCount(color.Other()) <= 20
}
