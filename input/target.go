package input

// Listener handles an event delivered on a Target.
type Listener func(Event)

type registration struct {
	fn      Listener
	removed bool
}

// Target is a surface events are dispatched on, such as a slider element,
// the document or the playback canvas.
//
// A Target is not safe for concurrent use; it belongs to the event loop.
type Target struct {
	listeners map[Type][]*registration
}

// NewTarget returns an empty Target.
func NewTarget() *Target {
	return &Target{listeners: make(map[Type][]*registration)}
}

// Listen registers fn for events of type t and returns a function that
// removes it. Calling the returned function more than once is a no-op.
func (t *Target) Listen(typ Type, fn Listener) (remove func()) {
	reg := &registration{fn: fn}
	t.listeners[typ] = append(t.listeners[typ], reg)

	return func() {
		if reg.removed {
			return
		}
		reg.removed = true

		regs := t.listeners[typ]
		for i, r := range regs {
			if r == reg {
				t.listeners[typ] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
		if len(t.listeners[typ]) == 0 {
			delete(t.listeners, typ)
		}
	}
}

// Dispatch delivers ev to the listeners registered for its type, in
// registration order. Listeners removed during dispatch are skipped.
func (t *Target) Dispatch(ev Event) {
	regs := append([]*registration(nil), t.listeners[ev.Type()]...)
	for _, r := range regs {
		if !r.removed {
			r.fn(ev)
		}
	}
}

// Listeners returns the number of listeners registered for typ.
func (t *Target) Listeners(typ Type) int {
	return len(t.listeners[typ])
}

// Len returns the total number of registered listeners.
func (t *Target) Len() int {
	n := 0
	for _, regs := range t.listeners {
		n += len(regs)
	}

	return n
}
