package bot

import "math/rand"

// defaultSource backs defaultIntn; package-level so every RandomBot
// instance that doesn't supply its own source shares one RNG rather than
// each seeding its own from the clock.
var defaultSource = rand.New(rand.NewSource(1))

func defaultIntn(n int) int { return defaultSource.Intn(n) }

// Tier names the three auto-opponent difficulty levels.
type Tier string

const (
	TierRandom Tier = "random"
	TierRace   Tier = "race"
	TierPro    Tier = "pro"
)

// NewBot constructs the Brain for tier, defaulting to TierRace for an
// unrecognized value so a misconfigured difficulty still produces a
// playable opponent instead of a nil Brain.
func NewBot(tier Tier) Brain {
	switch tier {
	case TierRandom:
		return NewRandomBot(nil)
	case TierPro:
		return NewProBot()
	default:
		return NewRaceBot()
	}
}
