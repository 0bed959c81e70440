package session

import "backgammon/internal/domain"

// Kind classifies an action failure at the orchestrator boundary (spec
// §7), distinct from the domain's Reason values: Reason explains *why* an
// engine operation refused a move; Kind tells the transport layer *how* to
// react (retry, surface to the caller only, or force a reconnect).
type Kind int

const (
	Validation Kind = iota
	Contention
	NotFound
	Terminal
	Internal
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Contention:
		return "contention"
	case NotFound:
		return "not_found"
	case Terminal:
		return "terminal"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// ActionError is returned by every orchestrator action. Reason is set only
// when the failure originated from a domain.Result.
type ActionError struct {
	Kind    Kind
	Reason  domain.Reason
	Message string
}

func (e *ActionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Reason)
}

func validationErr(r domain.Reason) *ActionError {
	return &ActionError{Kind: Validation, Reason: r}
}

func contentionErr(r domain.Reason) *ActionError {
	return &ActionError{Kind: Contention, Reason: r}
}

func notFoundErr(msg string) *ActionError {
	return &ActionError{Kind: NotFound, Message: msg}
}

func terminalErr() *ActionError {
	return &ActionError{Kind: Terminal, Reason: domain.ReasonGameAlreadyOver}
}

func internalErr(msg string) *ActionError {
	return &ActionError{Kind: Internal, Message: msg}
}

// fromResult translates a domain.Result into an ActionError, classifying
// GameAlreadyOver as Terminal and everything else as Validation. Callers
// that know a failure is actually a race (Contention) construct the
// ActionError directly instead of calling this helper.
func fromResult(res domain.Result) *ActionError {
	if res.OK {
		return nil
	}
	if res.Reason == domain.ReasonGameAlreadyOver {
		return terminalErr()
	}
	return validationErr(res.Reason)
}
