package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RpcFindMatch searches for a match with an open seat, creating one if
// none is available. Unlike the teacher's VIP/type-gated search, this
// kernel has a single match type; an optional "vsBot" flag in the payload
// requests an auto-opponent seat instead of waiting for a second human.
func RpcFindMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	type findMatchReq struct {
		VsBot       bool `json:"vsBot"`
		TargetScore int  `json:"targetScore"`
	}
	var req findMatchReq
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Error("RpcFindMatch [User:%s]: failed to unmarshal payload: %v", userID, err)
			return "", err
		}
	}

	if !req.VsBot {
		limit := 1
		authoritative := true
		labelQuery := fmt.Sprintf("+label.open:%s", "true")
		minSize, maxSize := 1, 1
		matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, labelQuery)
		if err != nil {
			logger.Error("RpcFindMatch [User:%s]: failed to list matches: %v", userID, err)
			return "", err
		}
		if len(matches) > 0 {
			matchID := matches[0].MatchId
			logger.Info("RpcFindMatch [User:%s]: joining existing match %s", userID, matchID)
			return fmt.Sprintf("%q", matchID), nil
		}
	}

	params := map[string]interface{}{"vsBot": req.VsBot}
	if req.TargetScore > 0 {
		params["targetScore"] = req.TargetScore
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameBackgammon, params)
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: failed to create match: %v", userID, err)
		return "", err
	}
	logger.Info("RpcFindMatch [User:%s]: created match %s", userID, matchID)
	return fmt.Sprintf("%q", matchID), nil
}

// adminSessionView is the JSON shape returned by the admin surface's list
// and show operations — enough to diagnose a stuck session without
// exposing full board state.
type adminSessionView struct {
	SessionID       string `json:"sessionId"`
	MatchID         string `json:"matchId"`
	ConnectionCount int    `json:"connectionCount"`
	PositionID      string `json:"positionId"`
	CurrentPlayer   int    `json:"currentPlayer"`
}

// RpcAdminListSessions returns every session id currently tracked by the
// Registry. Intended for operator tooling, not game clients.
func RpcAdminListSessions(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	ids := registry.SessionIDs()
	out, err := json.Marshal(ids)
	if err != nil {
		return "", runtime.NewError("failed to encode session list", 13)
	}
	return string(out), nil
}

// RpcAdminShowSession reports one session's position id, current player,
// and live connection count.
func RpcAdminShowSession(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	type req struct {
		SessionID string `json:"sessionId"`
	}
	var r req
	if err := json.Unmarshal([]byte(payload), &r); err != nil || r.SessionID == "" {
		return "", runtime.NewError("sessionId is required", 3)
	}
	orch, ok := registry.Get(r.SessionID)
	if !ok {
		return "", runtime.NewError("session not found", 5)
	}
	sess := orch.Session()
	view := adminSessionView{
		SessionID:       sess.ID,
		MatchID:         sess.MatchID,
		ConnectionCount: sess.ConnectionCount(),
		PositionID:      sess.Engine.PositionID(),
		CurrentPlayer:   int(sess.Engine.CurrentPlayer()),
	}
	out, err := json.Marshal(view)
	if err != nil {
		return "", runtime.NewError("failed to encode session", 13)
	}
	return string(out), nil
}

// RpcAdminEvictSession force-evicts a session, e.g. to free it from a
// runner an operator has identified as stuck.
func RpcAdminEvictSession(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	type req struct {
		SessionID string `json:"sessionId"`
	}
	var r req
	if err := json.Unmarshal([]byte(payload), &r); err != nil || r.SessionID == "" {
		return "", runtime.NewError("sessionId is required", 3)
	}
	if _, ok := registry.Get(r.SessionID); !ok {
		return "", runtime.NewError("session not found", 5)
	}
	registry.Evict(r.SessionID)
	logger.Info("RpcAdminEvictSession: evicted %s", r.SessionID)
	return `{"evicted":true}`, nil
}
