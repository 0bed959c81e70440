package bot

import botinternal "backgammon/internal/bot/internal"

// RaceTuning balances pip progress against blot safety for RaceBot.
var RaceTuning = botinternal.BotTuning{
	Opening: botinternal.PhaseWeights{
		PipWeight:          1.0,
		BlotExposureWeight: 3.0,
		PrimeWeight:        1.5,
		AnchorWeight:       1.0,
		HomeBoardWeight:    0.5,
		BearOffWeight:      0.0,
		BarEntryPenalty:    4.0,
	},
	Mid: botinternal.PhaseWeights{
		PipWeight:          1.2,
		BlotExposureWeight: 4.0,
		PrimeWeight:        2.0,
		AnchorWeight:       1.5,
		HomeBoardWeight:    1.0,
		BearOffWeight:      0.0,
		BarEntryPenalty:    5.0,
	},
	BearOff: botinternal.PhaseWeights{
		PipWeight:          0.5,
		BlotExposureWeight: 2.0,
		BearOffWeight:      4.0,
		BarEntryPenalty:    6.0,
	},
	OfferPipLead:        15,
	AcceptPipDeficitMax: 10,
}

// ProTuning sharpens blot safety and bear-off efficiency further and opens
// the doubling window earlier, mirroring the teacher's top-tier bot being
// the most conservative about structure and the most aggressive about
// converting an advantage.
var ProTuning = botinternal.BotTuning{
	Opening: botinternal.PhaseWeights{
		PipWeight:          1.0,
		BlotExposureWeight: 5.0,
		PrimeWeight:        2.5,
		AnchorWeight:       1.5,
		HomeBoardWeight:    1.0,
		BarEntryPenalty:    5.0,
	},
	Mid: botinternal.PhaseWeights{
		PipWeight:          1.3,
		BlotExposureWeight: 6.0,
		PrimeWeight:        3.0,
		AnchorWeight:       2.0,
		HomeBoardWeight:    1.5,
		BarEntryPenalty:    6.0,
	},
	BearOff: botinternal.PhaseWeights{
		PipWeight:          0.6,
		BlotExposureWeight: 3.0,
		BearOffWeight:      6.0,
		BarEntryPenalty:    8.0,
	},
	OfferPipLead:        10,
	AcceptPipDeficitMax: 14,
}
