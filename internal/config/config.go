// Package config supplies the kernel's ambient tunables: time-control
// defaults, auto-opponent tier selection, and session eviction TTLs. It
// follows the teacher's two-layer pattern: a sync.Once-guarded JSON file
// load for values an operator ships as a file, overridable per-field by
// environment variables read the same way match_handler.go reads Nakama's
// runtime env map (falling back to os.Getenv so the same binary runs
// outside Nakama too).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// ClockConfig holds the Time Controller's ChicagoPoint defaults (spec §4.J).
type ClockConfig struct {
	Mode               string        `json:"mode"` // "none" or "chicago_point"
	DelaySeconds       int           `json:"delay_seconds"`
	ReserveMinutesPerPoint int       `json:"reserve_minutes_per_point"`
}

// Delay returns the configured per-move delay as a duration.
func (c ClockConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// ReservePerSide returns the shared reserve for a match played to
// targetScore, per spec's "2 x targetScore minutes" default.
func (c ClockConfig) ReservePerSide(targetScore int) time.Duration {
	return time.Duration(c.ReserveMinutesPerPoint*targetScore) * time.Minute
}

// Config is the kernel's ambient configuration, loaded once per process.
type Config struct {
	Clock ClockConfig `json:"clock"`

	// BotTier is the default auto-opponent difficulty for seats not
	// filled by a human (spec §4.I): "random", "race", or "pro".
	BotTier string `json:"bot_tier"`

	// CrawfordEnabled is the match-layer default for Match.crawfordEnabled
	// (spec §9 Open Question 3: configurable, default true).
	CrawfordEnabled bool `json:"crawford_enabled"`

	// SessionTTLSeconds is how long a session may sit with zero live connections
	// (and not terminal) before the Registry's sweeper evicts it
	// (spec §4.G).
	SessionTTLSeconds int `json:"session_ttl_seconds"`

	// SweepIntervalSeconds is how often the Registry's sweeper walks all
	// sessions looking for eviction candidates.
	SweepIntervalSeconds int `json:"sweep_interval_seconds"`

	// DefaultTargetScore is the match length used when a client requests
	// a match without specifying one.
	DefaultTargetScore int `json:"default_target_score"`
}

// Default returns the kernel's built-in defaults, used when no config file
// is supplied and no environment override is present.
func Default() Config {
	return Config{
		Clock: ClockConfig{
			Mode:                   "chicago_point",
			DelaySeconds:           12,
			ReserveMinutesPerPoint: 2,
		},
		BotTier:              "race",
		CrawfordEnabled:      true,
		SessionTTLSeconds:    1800,
		SweepIntervalSeconds: 60,
		DefaultTargetScore:   7,
	}
}

var (
	cfg      Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads the kernel config from path, falling back to Default() for
// any field the file omits. Safe to call once per process; subsequent
// calls return the first call's result, mirroring the teacher's
// LoadBetConfig sync.Once idiom.
func Load(path string) error {
	loadOnce.Do(func() {
		cfg = Default()
		if path == "" {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("config: failed to read %s: %w", path, err)
			return
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			loadErr = fmt.Errorf("config: failed to unmarshal %s: %w", path, err)
			return
		}
	})
	return loadErr
}

// Get returns the process-wide Config, loading the built-in defaults on
// first use if Load was never called.
func Get() Config {
	loadOnce.Do(func() { cfg = Default() })
	return cfg
}

// EnvOrOs looks up key in env (typically Nakama's RUNTIME_CTX_ENV map),
// falling back to the process environment — the two-source lookup
// match_handler.go and init.go use for their backgammon_* settings.
func EnvOrOs(env map[string]string, key string) string {
	if v, ok := env[key]; ok && v != "" {
		return v
	}
	return os.Getenv(key)
}

// EnvIntOrOs is EnvOrOs parsed as an int, returning def on a missing or
// unparsable value.
func EnvIntOrOs(env map[string]string, key string, def int) int {
	v := EnvOrOs(env, key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvBoolOrOs is EnvOrOs parsed as a bool ("true"/"false"), returning def
// on a missing value.
func EnvBoolOrOs(env map[string]string, key string, def bool) bool {
	v := EnvOrOs(env, key)
	if v == "" {
		return def
	}
	return v == "true"
}
