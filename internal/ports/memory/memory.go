// Package memory is a non-production reference implementation of
// ports.Persistence, backed by a mutex-guarded map. It exists so the
// kernel can be exercised end-to-end in tests and a local/embedded run
// without a real database adapter; production deployments supply their
// own ports.Persistence.
package memory

import (
	"context"
	"sync"

	"backgammon/internal/ports"
)

// Store is an in-memory ports.Persistence implementation.
type Store struct {
	mu      sync.Mutex
	matches map[string]*ports.MatchRecord
	games   map[string]*ports.GameSnapshot
	results map[string][]ports.GameResultRecord
}

// New returns an empty in-memory Store.
func New() *Store {
	return &Store{
		matches: make(map[string]*ports.MatchRecord),
		games:   make(map[string]*ports.GameSnapshot),
		results: make(map[string][]ports.GameResultRecord),
	}
}

func (s *Store) LoadMatch(_ context.Context, matchID string) (*ports.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *Store) SaveMatch(_ context.Context, m *ports.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.matches[m.MatchID] = &cp
	return nil
}

func (s *Store) LoadGame(_ context.Context, gameID string) (*ports.GameSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *Store) SaveGame(_ context.Context, snap *ports.GameSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.games[snap.GameID] = &cp
	return nil
}

func (s *Store) AppendGameResult(_ context.Context, matchID string, result ports.GameResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[matchID] = append(s.results[matchID], result)
	return nil
}

// Results returns a copy of the results recorded for matchID, for test
// assertions.
func (s *Store) Results(matchID string) []ports.GameResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.GameResultRecord(nil), s.results[matchID]...)
}
