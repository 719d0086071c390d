package slider

import "github.com/ericyan/omnislider/schedule"

// Vars is the snapshot of a slider presentation binds to.
type Vars struct {
	Value          float64
	PointerValue   float64
	FillPercent    float64
	PointerPercent float64

	Dragging bool
	Pointing bool
	Focused  bool
	Hidden   bool
	Active   bool
}

// Snapshot returns the current Vars of c.
func (c *Core) Snapshot() Vars {
	return Vars{
		Value:          c.Value.Get(),
		PointerValue:   c.PointerValue.Get(),
		FillPercent:    c.FillPercent(),
		PointerPercent: c.PointerPercent(),
		Dragging:       c.Dragging.Get(),
		Pointing:       c.Pointing.Get(),
		Focused:        c.Focused.Get(),
		Hidden:         c.Hidden.Get(),
		Active:         c.Active(),
	}
}

// Output publishes a Core's Vars once per frame. Any number of state
// changes between two frames result in a single write to each sink.
type Output struct {
	core   *Core
	frames schedule.FrameRequester

	sinks       []func(Vars)
	unsubscribe []func()
	scheduled   bool
	closed      bool
}

// NewOutput returns an Output watching core.
func NewOutput(core *Core, frames schedule.FrameRequester) *Output {
	o := &Output{core: core, frames: frames}

	watch := func(ob interface{ Subscribe(func(float64)) func() }) {
		o.unsubscribe = append(o.unsubscribe, ob.Subscribe(func(float64) { o.Invalidate() }))
	}
	watchFlag := func(ob interface{ Subscribe(func(bool)) func() }) {
		o.unsubscribe = append(o.unsubscribe, ob.Subscribe(func(bool) { o.Invalidate() }))
	}

	watch(&core.Min)
	watch(&core.Max)
	watch(&core.Value)
	watch(&core.PointerValue)
	watchFlag(&core.Dragging)
	watchFlag(&core.Pointing)
	watchFlag(&core.Focused)
	watchFlag(&core.Hidden)

	return o
}

// Sink registers fn to receive every published snapshot.
func (o *Output) Sink(fn func(Vars)) {
	o.sinks = append(o.sinks, fn)
}

// Invalidate schedules a write at the next frame unless one is already
// scheduled.
func (o *Output) Invalidate() {
	if o.scheduled || o.closed {
		return
	}
	o.scheduled = true
	o.frames.RequestFrame(o.flush)
}

// Close stops watching the core. A scheduled write is dropped.
func (o *Output) Close() {
	o.closed = true
	for _, off := range o.unsubscribe {
		off()
	}
	o.unsubscribe = nil
}

func (o *Output) flush() {
	o.scheduled = false
	if o.closed {
		return
	}

	vars := o.core.Snapshot()
	for _, sink := range o.sinks {
		sink(vars)
	}
}
