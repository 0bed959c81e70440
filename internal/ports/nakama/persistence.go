package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"backgammon/internal/ports"
)

const (
	matchCollection = "backgammon_matches"
	gameCollection  = "backgammon_games"
	resultCollection = "backgammon_results"
)

// StorageAdapter is the production ports.Persistence implementation,
// backed by Nakama's own storage engine via nk.StorageRead/StorageWrite,
// grounded on the teacher's NakamaWelcomeBonusAdapter (a thin struct
// wrapping runtime.NakamaModule, server-only read/write permissions, JSON
// marshalled records under a fixed collection/key).
type StorageAdapter struct {
	nk runtime.NakamaModule
}

// NewStorageAdapter wraps nk as a ports.Persistence.
func NewStorageAdapter(nk runtime.NakamaModule) *StorageAdapter {
	return &StorageAdapter{nk: nk}
}

var _ ports.Persistence = (*StorageAdapter)(nil)

func (a *StorageAdapter) readOne(ctx context.Context, collection, key string, out interface{}) (bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: collection, Key: key},
	})
	if err != nil {
		return false, err
	}
	if len(objects) == 0 {
		return false, nil
	}
	if err := json.Unmarshal([]byte(objects[0].Value), out); err != nil {
		return false, fmt.Errorf("nakama persistence: decode %s/%s: %w", collection, key, err)
	}
	return true, nil
}

func (a *StorageAdapter) writeOne(ctx context.Context, collection, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("nakama persistence: encode %s/%s: %w", collection, key, err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      collection,
			Key:             key,
			Value:           string(data),
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	return err
}

func (a *StorageAdapter) LoadMatch(ctx context.Context, matchID string) (*ports.MatchRecord, error) {
	var rec ports.MatchRecord
	found, err := a.readOne(ctx, matchCollection, matchID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (a *StorageAdapter) SaveMatch(ctx context.Context, m *ports.MatchRecord) error {
	return a.writeOne(ctx, matchCollection, m.MatchID, m)
}

func (a *StorageAdapter) LoadGame(ctx context.Context, gameID string) (*ports.GameSnapshot, error) {
	var snap ports.GameSnapshot
	found, err := a.readOne(ctx, gameCollection, gameID, &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

func (a *StorageAdapter) SaveGame(ctx context.Context, snap *ports.GameSnapshot) error {
	return a.writeOne(ctx, gameCollection, snap.GameID, snap)
}

// AppendGameResult reads the existing results slice for matchID, appends,
// and writes it back. Nakama storage has no native list-append primitive,
// so this follows the read-modify-write shape the teacher uses for its
// VIP status flag in rpc.go (read, decode, mutate, write) rather than
// Nakama's optimistic-concurrency Version field, since result ordering
// racing two concurrent game settlements on the same match is already
// excluded by the Orchestrator's single-actor-per-session guarantee.
func (a *StorageAdapter) AppendGameResult(ctx context.Context, matchID string, result ports.GameResultRecord) error {
	var results []ports.GameResultRecord
	if _, err := a.readOne(ctx, resultCollection, matchID, &results); err != nil {
		return err
	}
	results = append(results, result)
	return a.writeOne(ctx, resultCollection, matchID, results)
}
