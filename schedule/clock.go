// Package schedule provides the deferred-execution primitives sliders run
// on: timers and display-frame callbacks delivered on a single event loop.
package schedule

import "time"

// DefaultFrameInterval is the frame period used when none is configured,
// roughly one display refresh at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Timer is a pending call created by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the call from running. It reports whether the call
	// was still pending.
	Stop() bool
}

// Clock tells time and runs functions after a delay. Functions are always
// run on the goroutine that owns the clock's event loop.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// FrameRequester runs functions at the next display-frame boundary.
type FrameRequester interface {
	RequestFrame(f func())
}

// Scheduler is a Clock that can also schedule frame callbacks.
type Scheduler interface {
	Clock
	FrameRequester
}
