package session

import (
	"sync"
	"time"
)

// Scheduler is the Time Controller (spec §4.J): a single loop that wakes
// every tickInterval and decrements the reserve/delay of every registered
// session's Clock. It never takes a Session lock directly — ticking a
// Clock only touches that Clock's own fields, and a timeout is delivered
// by posting to the Orchestrator's mailbox via EnqueueTimeout, honoring
// spec §5's rule that "the Time Controller must never take a Session
// lock; it enqueues actions into the session's action queue instead."
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*schedEntry

	stop chan struct{}
	once sync.Once
}

type schedEntry struct {
	clock *Clock
	orch  *Orchestrator
}

// NewScheduler starts a Scheduler ticking at tickInterval.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		entries: make(map[string]*schedEntry),
		stop:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Register attaches sessionID's clock and orchestrator to the scheduler's
// tick loop. Called once per session at creation time.
func (s *Scheduler) Register(sessionID string, clock *Clock, orch *Orchestrator) {
	if clock == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = &schedEntry{clock: clock, orch: orch}
}

// Unregister detaches sessionID, called on session eviction (spec §4.J
// Cancellation: "session eviction deterministically stops that session's
// clock"). Sessions without a clock are never registered in the first place.
func (s *Scheduler) Unregister(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// Close stops the scheduler's goroutine.
func (s *Scheduler) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			d := now.Sub(last)
			last = now
			s.tickAll(d)
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) tickAll(d time.Duration) {
	s.mu.Lock()
	entries := make([]*schedEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		if e.clock.Tick(d) {
			e.orch.EnqueueTimeout()
			continue
		}
		if e.clock.ShouldEmitTimeUpdate(d) {
			e.orch.broadcastEvent(EventTimeUpdate, e.clock.State())
		}
	}
}
