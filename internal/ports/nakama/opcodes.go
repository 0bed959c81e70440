package nakama

// Op codes for client -> server actions and server -> client events,
// mirroring the teacher's opcodes.go constant block (int64 codes dispatched
// through runtime.MatchData.GetOpCode()/dispatcher.BroadcastMessage).
const (
	// Client -> server (spec §4.F's accepted-action table).
	OpJoinGame        int64 = 1
	OpRollDice        int64 = 2
	OpMakeMove        int64 = 3
	OpEndTurn         int64 = 4
	OpUndoLastMove    int64 = 5
	OpOfferDouble     int64 = 6
	OpAcceptDouble    int64 = 7
	OpDeclineDouble   int64 = 8
	OpAbandonGame     int64 = 9
	OpRequestAnalysis int64 = 10
	OpLeaveAnalysis   int64 = 11
	OpPostChat        int64 = 12

	// Server -> client (spec §4.H's event list).
	OpGameUpdate     int64 = 101
	OpGameStart      int64 = 102
	OpGameOver       int64 = 103
	OpOpponentJoined int64 = 104
	OpOpponentLeft   int64 = 105
	OpDoubleOffered  int64 = 106
	OpDoubleAccepted int64 = 107
	OpTimeUpdate     int64 = 108
	OpPlayerTimedOut int64 = 109
	OpMatchUpdate    int64 = 110
	OpMatchCompleted int64 = 111
	OpErrorEvent     int64 = 112
	OpChatMessage    int64 = 113
)

// eventOpcode maps a session.EventKind to the wire opcode clients switch
// on, the same role the teacher's OpCode_OP_CODE_* enum plays for Tiến
// Lên's event stream.
var eventOpcode = map[string]int64{
	"GameUpdate":     OpGameUpdate,
	"GameStart":      OpGameStart,
	"GameOver":       OpGameOver,
	"OpponentJoined": OpOpponentJoined,
	"OpponentLeft":   OpOpponentLeft,
	"DoubleOffered":  OpDoubleOffered,
	"DoubleAccepted": OpDoubleAccepted,
	"TimeUpdate":     OpTimeUpdate,
	"PlayerTimedOut": OpPlayerTimedOut,
	"MatchUpdate":    OpMatchUpdate,
	"MatchCompleted": OpMatchCompleted,
	"Error":          OpErrorEvent,
	"ChatMessage":    OpChatMessage,
}

// moveActionRequest is the JSON payload for OpMakeMove.
type moveActionRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
	Die  int `json:"die"`
}

// chatActionRequest is the JSON payload for OpPostChat.
type chatActionRequest struct {
	Text string `json:"text"`
}

// errorPayload is the JSON payload carried by an OpErrorEvent message.
type errorPayload struct {
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
