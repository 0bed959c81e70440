package ports

import "context"

// Identity is the Identity Gateway boundary (spec §6): authenticates a
// transport connection and returns an opaque, stable player id. The
// kernel never interprets playerId beyond equality comparison.
type Identity interface {
	Authenticate(ctx context.Context, connectionID string) (playerID string, err error)
}
