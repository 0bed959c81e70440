package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// TestClient wraps one authenticated Nakama socket connection, grounded on
// the teacher's own TestClient (tests/integration/helpers.go): a thin
// holder around the client SDK's Client/Session/Socket triple plus the
// device id used to authenticate it.
type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

// NewTestClient authenticates a fresh device identity and opens its
// realtime socket.
func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("backgammon_test_%d", time.Now().UnixNano())
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}

	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("failed to connect socket: %v", err)
	}

	return &TestClient{Client: client, Session: session, Socket: socket, UserID: session.UserId}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// FindAndJoinMatch calls find_match (optionally requesting a bot
// opponent) and joins the match it returns.
func (tc *TestClient) FindAndJoinMatch(t *testing.T, vsBot bool) string {
	t.Helper()
	payload := "{}"
	if vsBot {
		payload = `{"vsBot":true}`
	}
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "find_match", payload)
	if err != nil {
		t.Fatalf("RPC find_match failed: %v", err)
	}
	matchID := strings.Trim(rpc.Payload, `"`)
	if matchID == "" {
		t.Fatalf("RPC find_match returned empty match id")
	}
	if _, err := tc.Socket.JoinMatch(context.Background(), nil, matchID, nil); err != nil {
		t.Fatalf("failed to join match %s: %v", matchID, err)
	}
	return matchID
}

// WaitForMatchData blocks until a message carrying opCode arrives on the
// socket or timeout elapses.
func (tc *TestClient) WaitForMatchData(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	t.Helper()
	ch := make(chan *rtapi.MatchData, 1)

	original := tc.Socket.OnMatchData
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		if data.OpCode == opCode {
			select {
			case ch <- data:
			default:
			}
		}
		if original != nil {
			original(data)
		}
	}

	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("timeout waiting for opcode %d", opCode)
		return nil
	}
}

// SendAction is a thin wrapper over SendMatchState for this kernel's JSON
// action payloads (see internal/ports/nakama/opcodes.go).
func (tc *TestClient) SendAction(t *testing.T, matchID string, opCode int64, payload []byte) {
	t.Helper()
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, payload, nil); err != nil {
		t.Fatalf("failed to send opcode %d: %v", opCode, err)
	}
}
