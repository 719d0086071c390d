package schedule

import (
	"sort"
	"time"
)

// Manual is a Scheduler whose time only moves when told to. Timers fire
// from Advance and frame callbacks run from Frame, on the caller's
// goroutine.
type Manual struct {
	now    time.Time
	seq    int
	timers []*manualTimer
	frames []func()
}

// NewManual returns a Manual clock starting at a fixed instant.
func NewManual() *Manual {
	return &Manual{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc implements Clock.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.seq++
	t := &manualTimer{m: m, when: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)

	return t
}

// RequestFrame implements FrameRequester.
func (m *Manual) RequestFrame(f func()) {
	m.frames = append(m.frames, f)
}

// Advance moves time forward by d, firing every timer that comes due in
// deadline order. Timers scheduled by fired callbacks fire too if they
// fall within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)

	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.remove(t)
		m.now = t.when
		t.f()
	}

	m.now = target
}

// Frame runs the callbacks queued for the current frame and returns how
// many ran.
func (m *Manual) Frame() int {
	frames := m.frames
	m.frames = nil

	for _, f := range frames {
		f()
	}

	return len(frames)
}

// PendingTimers returns the number of timers that have not fired or been
// stopped.
func (m *Manual) PendingTimers() int {
	return len(m.timers)
}

// PendingFrames returns the number of queued frame callbacks.
func (m *Manual) PendingFrames() int {
	return len(m.frames)
}

func (m *Manual) next(limit time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.when.After(limit) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].when.Equal(due[j].when) {
			return due[i].seq < due[j].seq
		}
		return due[i].when.Before(due[j].when)
	})

	return due[0]
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, p := range m.timers {
		if p == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}

	return false
}

type manualTimer struct {
	m    *Manual
	when time.Time
	seq  int
	f    func()
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	return t.m.remove(t)
}
