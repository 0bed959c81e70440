package session

import "sync"

// Fabric is the Broadcast Fabric boundary (spec §4.H): fan-out of state
// deltas to every connection of every relevant player, plus spectators.
// The only guarantee Fabric must uphold is per-connection ordering:
// events emitted for a single session arrive at each individual
// connection in emission order. No ordering is promised across sessions
// or across distinct connections of the same player.
type Fabric interface {
	Send(connectionID string, evt Event)
	Broadcast(sessionID string, evt Event, audience []string)
}

// connQueue is a bounded, ordered mailbox for one connection: a single
// goroutine drains it so two Send/Broadcast calls racing on different
// orchestrator goroutines still deliver to this connection in the order
// they were enqueued. Grounded on the teacher pack's connection-map +
// per-connection-state pattern (ludo-king-go room.go), generalized from a
// single shared room lock to one queue per connection.
type connQueue struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func newConnQueue(deliver func(Event)) *connQueue {
	q := &connQueue{ch: make(chan Event, 256)}
	go func() {
		for evt := range q.ch {
			deliver(evt)
		}
	}()
	return q
}

func (q *connQueue) enqueue(evt Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	select {
	case q.ch <- evt:
	default:
		// A connection that can't keep up drops the oldest pending event
		// rather than blocking the orchestrator; GameUpdate is always
		// safe to skip ahead of because each carries the full state.
		select {
		case <-q.ch:
		default:
		}
		q.ch <- evt
	}
}

func (q *connQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// InMemoryFabric is a Fabric backed by per-connection queues and a
// pluggable delivery function (the actual network write, supplied by the
// transport adapter — e.g. Nakama's dispatcher.BroadcastMessage).
type InMemoryFabric struct {
	mu      sync.RWMutex
	conns   map[string]*connQueue
	members map[string]map[string]bool // sessionID -> connectionID set
	deliver func(connectionID string, evt Event)
}

// NewInMemoryFabric returns a Fabric that hands every event to deliver on
// its own per-connection goroutine.
func NewInMemoryFabric(deliver func(connectionID string, evt Event)) *InMemoryFabric {
	return &InMemoryFabric{
		conns:   make(map[string]*connQueue),
		members: make(map[string]map[string]bool),
		deliver: deliver,
	}
}

// Register attaches connectionID to sessionID so a nil-audience Broadcast
// reaches it.
func (f *InMemoryFabric) Register(sessionID, connectionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conns[connectionID]; !ok {
		cid := connectionID
		f.conns[cid] = newConnQueue(func(evt Event) { f.deliver(cid, evt) })
	}
	if f.members[sessionID] == nil {
		f.members[sessionID] = make(map[string]bool)
	}
	f.members[sessionID][connectionID] = true
}

// Unregister detaches connectionID, stopping its delivery goroutine.
func (f *InMemoryFabric) Unregister(sessionID, connectionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.conns[connectionID]; ok {
		q.close()
		delete(f.conns, connectionID)
	}
	delete(f.members[sessionID], connectionID)
}

func (f *InMemoryFabric) Send(connectionID string, evt Event) {
	f.mu.RLock()
	q, ok := f.conns[connectionID]
	f.mu.RUnlock()
	if ok {
		q.enqueue(evt)
	}
}

func (f *InMemoryFabric) Broadcast(sessionID string, evt Event, audience []string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	targets := audience
	if targets == nil {
		for cid := range f.members[sessionID] {
			targets = append(targets, cid)
		}
	}
	for _, cid := range targets {
		if q, ok := f.conns[cid]; ok {
			q.enqueue(evt)
		}
	}
}
