package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"backgammon/internal/config"
	"backgammon/internal/domain"
	"backgammon/internal/ports"
	"backgammon/internal/ports/memory"
	"backgammon/internal/session"
)

// InitModule wires RPCs and the match handler for Nakama's runtime,
// grounded on the teacher's own InitModule (Server/internal/ports/nakama/init.go):
// read env-var overrides, register every RPC, register the single match
// handler, log completion.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	if configPath := config.EnvOrOs(env, "backgammon_config_path"); configPath != "" {
		if err := config.Load(configPath); err != nil {
			logger.Warn("InitModule: failed to load config from %s: %v", configPath, err)
		}
	}
	cfg := config.Get()

	persistence = resolvePersistence(env, nk)
	registry = session.NewRegistry(
		time.Duration(config.EnvIntOrOs(env, "backgammon_sweep_interval_seconds", cfg.SweepIntervalSeconds))*time.Second,
		time.Duration(config.EnvIntOrOs(env, "backgammon_session_ttl_seconds", cfg.SessionTTLSeconds))*time.Second,
	)

	if err := initializer.RegisterRpc("find_match", RpcFindMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc("admin_list_sessions", RpcAdminListSessions); err != nil {
		return err
	}
	if err := initializer.RegisterRpc("admin_show_session", RpcAdminShowSession); err != nil {
		return err
	}
	if err := initializer.RegisterRpc("admin_evict_session", RpcAdminEvictSession); err != nil {
		return err
	}
	if err := initializer.RegisterRpc("reseed_dice", RpcReseedDice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBackgammon, NewMatch); err != nil {
		return err
	}

	logger.Info("Backgammon Go module loaded.")
	return nil
}

// resolvePersistence wires the production Nakama storage adapter unless
// the operator opts into the in-memory reference store (local runs, CI),
// toggled the same env-var-or-os way as every other backgammon_* setting.
func resolvePersistence(env map[string]string, nk runtime.NakamaModule) ports.Persistence {
	if config.EnvBoolOrOs(env, "backgammon_memory_store", false) {
		return memory.New()
	}
	return NewStorageAdapter(nk)
}

// RpcReseedDice replaces a session's dice source with one seeded
// deterministically from the payload, for analysis-mode replays and
// integration tests that need reproducible rolls. It requires the caller
// to hold the session's analysis lock (spec §4.E: only the analysis owner
// may request alternate lines) rather than checking here, since dice
// reseeding has no effect on a game already past its opening roll besides
// future turns.
func RpcReseedDice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	type req struct {
		SessionID string `json:"sessionId"`
		Seed      int64  `json:"seed"`
	}
	var r req
	if err := json.Unmarshal([]byte(payload), &r); err != nil || r.SessionID == "" {
		return "", runtime.NewError("sessionId is required", 3)
	}
	orch, ok := registry.Get(r.SessionID)
	if !ok {
		return "", runtime.NewError("session not found", 5)
	}
	orch.Session().Engine.ReplaceDice(domain.NewDice(rand.New(rand.NewSource(r.Seed))))
	return `{"reseeded":true}`, nil
}
