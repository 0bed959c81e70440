package session

import (
	"time"

	"backgammon/internal/domain"
)

// ClockMode selects whether a session runs a time control at all.
type ClockMode int

const (
	ClockNone ClockMode = iota
	ClockChicagoPoint
)

const (
	defaultDelay        = 12 * time.Second
	tickInterval         = 250 * time.Millisecond
	timeUpdateThrottle   = 1 * time.Second
)

// DefaultReserve returns the default shared reserve per game under
// ChicagoPoint rules: 2 minutes per match target point.
func DefaultReserve(targetScore int) time.Duration {
	return time.Duration(2*targetScore) * time.Minute
}

// ClockState is the point-in-time snapshot exposed in StateSnapshot.
type ClockState struct {
	Mode            ClockMode
	ActiveColor     domain.Color
	Running         bool
	DelayRemaining  time.Duration
	ReserveWhite    time.Duration
	ReserveRed      time.Duration
}

// Clock is one session's per-player delay + shared reserve accounting
// under ChicagoPoint rules. It is ticked by the Registry's Scheduler,
// never directly by the orchestrator, so clock accounting cannot itself
// take the session lock (spec §5's lock-order rule: the Time Controller
// must never take a Session lock).
type Clock struct {
	mode    ClockMode
	delay   time.Duration
	reserve [2]time.Duration

	running        bool
	active         domain.Color
	delayRemaining time.Duration
	sinceLastEvent time.Duration
}

// NewClock returns a Clock in the given mode with delay and an equal
// reserve for both colors.
func NewClock(mode ClockMode, delay, reservePerSide time.Duration) *Clock {
	return &Clock{
		mode:    mode,
		delay:   delay,
		reserve: [2]time.Duration{reservePerSide, reservePerSide},
	}
}

// StartTurn begins the delay window for color. Called on endTurn and on
// game start.
func (c *Clock) StartTurn(color domain.Color) {
	if c.mode == ClockNone {
		return
	}
	c.running = true
	c.active = color
	c.delayRemaining = c.delay
}

// Stop cancels the running clock — called when a game is settled and on
// analysis mode entry. Ending a turn restarts the clock through StartTurn
// instead, and eviction detaches it from the Scheduler without calling Stop.
func (c *Clock) Stop() { c.running = false }

// Tick advances the clock by d, consuming delay first and then reserve.
// Reports whether the active color's reserve has just been exhausted.
func (c *Clock) Tick(d time.Duration) (timedOut bool) {
	if !c.running || c.mode == ClockNone {
		return false
	}
	if c.delayRemaining > 0 {
		c.delayRemaining -= d
		if c.delayRemaining < 0 {
			d = -c.delayRemaining
			c.delayRemaining = 0
		} else {
			return false
		}
	}
	c.reserve[c.active] -= d
	if c.reserve[c.active] <= 0 {
		c.reserve[c.active] = 0
		c.running = false
		return true
	}
	return false
}

// ShouldEmitTimeUpdate reports whether at least timeUpdateThrottle has
// elapsed since the last TimeUpdate event for this clock, advancing d.
func (c *Clock) ShouldEmitTimeUpdate(d time.Duration) bool {
	c.sinceLastEvent += d
	if c.sinceLastEvent >= timeUpdateThrottle {
		c.sinceLastEvent = 0
		return true
	}
	return false
}

// State returns a snapshot of the clock for broadcast.
func (c *Clock) State() ClockState {
	return ClockState{
		Mode:           c.mode,
		ActiveColor:    c.active,
		Running:        c.running,
		DelayRemaining: c.delayRemaining,
		ReserveWhite:   c.reserve[domain.White],
		ReserveRed:     c.reserve[domain.Red],
	}
}
