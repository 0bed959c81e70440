package domain

// Reason is a typed, comparable failure code returned by engine operations.
// The engine never panics or returns a generic error for expected rule
// violations; callers branch on Reason to decide how to respond to a
// client.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNotYourTurn         Reason = "not_your_turn"
	ReasonNoRollYet           Reason = "no_roll_yet"
	ReasonAlreadyRolled       Reason = "already_rolled"
	ReasonBarEntryRequired    Reason = "bar_entry_required"
	ReasonDestinationBlocked  Reason = "destination_blocked"
	ReasonDieNotAvailable     Reason = "die_not_available"
	ReasonNotAllInHome        Reason = "not_all_in_home"
	ReasonWouldSkipUsableDie  Reason = "would_skip_usable_die"
	ReasonGameAlreadyOver     Reason = "game_already_over"
	ReasonIllegalMove         Reason = "illegal_move"
	ReasonNoMoveToUndo        Reason = "no_move_to_undo"
	ReasonCrawfordNoDouble    Reason = "crawford_no_double"
	ReasonOfferAlreadyPending Reason = "offer_already_pending"
	ReasonNoPendingOffer      Reason = "no_pending_offer"
	ReasonNotCubeOwnerChoice  Reason = "not_cube_owner_choice"
	ReasonNotResponder        Reason = "not_responder"
)

// Result is the outcome of a domain operation: either success, or a
// specific Reason a caller can translate into a user-facing message.
type Result struct {
	OK     bool
	Reason Reason
}

// Ok constructs a successful Result.
func Ok() Result { return Result{OK: true} }

// Fail constructs a failed Result carrying r.
func Fail(r Reason) Result { return Result{OK: false, Reason: r} }
