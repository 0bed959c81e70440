package session

// EventKind names the events the Broadcast Fabric fans out (spec §4.H).
type EventKind string

const (
	EventGameUpdate      EventKind = "GameUpdate"
	EventGameStart       EventKind = "GameStart"
	EventGameOver        EventKind = "GameOver"
	EventOpponentJoined  EventKind = "OpponentJoined"
	EventOpponentLeft    EventKind = "OpponentLeft"
	EventDoubleOffered   EventKind = "DoubleOffered"
	EventDoubleAccepted  EventKind = "DoubleAccepted"
	EventTimeUpdate      EventKind = "TimeUpdate"
	EventPlayerTimedOut  EventKind = "PlayerTimedOut"
	EventMatchUpdate     EventKind = "MatchUpdate"
	EventMatchCompleted  EventKind = "MatchCompleted"
	EventError           EventKind = "Error"
	EventChatMessage     EventKind = "ChatMessage"
)

// Event is one unit of fan-out: a kind and a payload. InMemoryFabric does
// not read Recipients; delivery targets come from Send's connection id or
// Broadcast's audience argument, where a nil audience means "every
// connection registered to the session" (players and spectators alike).
type Event struct {
	Kind       EventKind
	SessionID  string
	Payload    any
	Recipients []string
}
