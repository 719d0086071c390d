package slider

import "github.com/ericyan/omnislider/input"

// EventKind identifies a slider notification.
type EventKind string

// Slider notifications.
const (
	DragStart          EventKind = "drag-start"
	DragEnd            EventKind = "drag-end"
	ValueChange        EventKind = "value-change"
	DragValueChange    EventKind = "drag-value-change"
	PointerValueChange EventKind = "pointer-value-change"
)

// Event is a notification emitted by a Router. Trigger is the input event
// that caused it; it is nil for programmatic changes.
type Event struct {
	Kind    EventKind
	Value   float64
	Trigger input.Event
}

// Handler receives slider notifications.
type Handler func(Event)

type emitter struct {
	handlers map[EventKind][]*handlerReg
}

type handlerReg struct {
	fn     Handler
	active bool
}

func (e *emitter) on(kind EventKind, fn Handler) func() {
	if e.handlers == nil {
		e.handlers = make(map[EventKind][]*handlerReg)
	}

	reg := &handlerReg{fn: fn, active: true}
	e.handlers[kind] = append(e.handlers[kind], reg)

	return func() {
		if !reg.active {
			return
		}
		reg.active = false

		regs := e.handlers[kind]
		for i, r := range regs {
			if r == reg {
				e.handlers[kind] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

func (e *emitter) emit(ev Event) {
	regs := append([]*handlerReg(nil), e.handlers[ev.Kind]...)
	for _, r := range regs {
		if r.active {
			r.fn(ev)
		}
	}
}
