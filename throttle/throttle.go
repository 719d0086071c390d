// Package throttle limits how often a function runs.
package throttle

import (
	"time"

	"github.com/ericyan/omnislider/schedule"
)

// Throttle runs at most one scheduled function per interval. The first
// call in a quiet period runs immediately; calls made during the interval
// replace each other and the last one runs when the interval ends.
//
// A Throttle is not safe for concurrent use. It must be driven from the
// goroutine that owns its clock.
type Throttle struct {
	clock    schedule.Clock
	interval time.Duration

	timer   schedule.Timer
	pending func()
}

// New returns a Throttle using clock to measure interval.
func New(clock schedule.Clock, interval time.Duration) *Throttle {
	return &Throttle{clock: clock, interval: interval}
}

// Schedule runs fn now if the throttle is idle, or keeps it as the trailing
// call otherwise.
func (t *Throttle) Schedule(fn func()) {
	if t.interval <= 0 {
		fn()
		return
	}

	if t.timer != nil {
		t.pending = fn
		return
	}

	t.start()
	fn()
}

// Cancel drops the trailing call, if any, and ends the current interval.
func (t *Throttle) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
}

// Flush runs the trailing call immediately and ends the current interval.
// It reports whether a call was pending; if none was, Flush does nothing.
func (t *Throttle) Flush() bool {
	fn := t.pending
	if fn == nil {
		return false
	}
	t.Cancel()
	fn()

	return true
}

// Pending reports whether a trailing call is waiting for the interval to
// end.
func (t *Throttle) Pending() bool {
	return t.pending != nil
}

func (t *Throttle) start() {
	t.timer = t.clock.AfterFunc(t.interval, t.trailing)
}

func (t *Throttle) trailing() {
	t.timer = nil

	fn := t.pending
	if fn == nil {
		return
	}
	t.pending = nil

	t.start()
	fn()
}
