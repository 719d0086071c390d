package schedule

import (
	"context"
	"sync"
	"time"
)

// Loop is a single-goroutine event loop. Everything posted to it, every
// timer callback and every frame callback runs on the goroutine calling
// Run, one at a time.
type Loop struct {
	frameInterval time.Duration

	mu     sync.Mutex
	queue  []func()
	timers map[*loopTimer]struct{}
	closed bool

	wake chan struct{}
	quit chan struct{}
	once sync.Once

	// Owned by the loop goroutine.
	frames     []func()
	frameTimer Timer
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the period between frame callbacks.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// NewLoop returns a Loop that is ready to Run.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		frameInterval: DefaultFrameInterval,
		timers:        make(map[*loopTimer]struct{}),
		wake:          make(chan struct{}, 1),
		quit:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Post enqueues f to run on the loop. It reports false if the loop has
// been closed. Post is safe to call from any goroutine.
func (l *Loop) Post(f func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return true
}

// Run processes posted work until ctx is done or Close is called. Pending
// timers are stopped before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, f := range batch {
			f()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return nil
		case <-l.wake:
		}
	}
}

// Close stops the loop. Work posted afterwards is dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()

		close(l.quit)
	})
}

func (l *Loop) shutdown() {
	l.Close()

	l.mu.Lock()
	defer l.mu.Unlock()

	for t := range l.timers {
		t.t.Stop()
	}
	l.timers = make(map[*loopTimer]struct{})
	l.queue = nil
}

// Now returns the current wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{l: l}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.done {
				return
			}
			lt.done = true
			l.forget(lt)
			f()
		})
	})

	l.mu.Lock()
	l.timers[lt] = struct{}{}
	l.mu.Unlock()

	return lt
}

// RequestFrame queues f for the next frame tick. It must be called on the
// loop goroutine.
func (l *Loop) RequestFrame(f func()) {
	l.frames = append(l.frames, f)
	if l.frameTimer == nil {
		l.frameTimer = l.AfterFunc(l.frameInterval, l.runFrame)
	}
}

func (l *Loop) runFrame() {
	frames := l.frames
	l.frames = nil
	l.frameTimer = nil

	for _, f := range frames {
		f()
	}
}

func (l *Loop) forget(lt *loopTimer) {
	l.mu.Lock()
	delete(l.timers, lt)
	l.mu.Unlock()
}

type loopTimer struct {
	l *Loop
	t *time.Timer

	// done is only touched on the loop goroutine.
	done bool
}

// Stop implements Timer. It must be called on the loop goroutine.
func (t *loopTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.t.Stop()
	t.l.forget(t)

	return true
}
