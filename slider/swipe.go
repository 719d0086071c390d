package slider

import (
	"math"

	"github.com/ericyan/omnislider/input"
)

// Swipe gesture thresholds in pixels.
const (
	swipeActivateDistance = 20
	swipeScrollDistance   = 5
)

type swipeState struct {
	touchID    int
	startX     float64
	startY     float64
	startValue float64
	scrolling  bool
	active     bool
}

func (r *Router) onSwipeStart(ev input.Event) {
	te, ok := ev.(*input.TouchEvent)
	if !ok || r.disabled() || r.core.Hidden.Get() || r.core.Dragging.Get() {
		return
	}

	tp, ok := te.First()
	if !ok {
		return
	}

	r.swipe = &swipeState{
		touchID:    tp.ID,
		startX:     tp.ClientX,
		startY:     tp.ClientY,
		startValue: r.core.Value.Get(),
	}
}

func (r *Router) onSwipeMove(ev input.Event) {
	te, ok := ev.(*input.TouchEvent)
	s := r.swipe
	if !ok || s == nil || s.scrolling {
		return
	}

	tp, ok := findTouch(te, s.touchID)
	if !ok {
		return
	}

	dx := tp.ClientX - s.startX
	dy := math.Abs(tp.ClientY - s.startY)

	if !s.active {
		if dy > swipeScrollDistance {
			s.scrolling = true
			return
		}
		if math.Abs(dx) < swipeActivateDistance || dy >= swipeScrollDistance {
			return
		}

		s.active = true
		value := r.swipeValue(s, dx)
		r.startDrag(value, te, SwipeDrag)
		if r.session != nil {
			r.session.TouchID = s.touchID
		}
		r.updatePointerValue(value, te)
		return
	}

	if !r.core.Dragging.Get() {
		r.swipe = nil
		return
	}

	r.move.Schedule(func() {
		if !r.core.Dragging.Get() {
			return
		}
		r.updatePointerValue(r.swipeValue(s, dx), te)
	})
}

func (r *Router) onSwipeEnd(ev input.Event) {
	s := r.swipe
	r.swipe = nil

	if s == nil || !s.active {
		return
	}
	if r.session == nil || r.session.Source != SwipeDrag {
		return
	}

	r.move.Flush()
	r.stopDrag(r.core.Value.Get(), ev)
}

// swipeValue offsets the value at touch start by the share of the surface
// width covered horizontally.
func (r *Router) swipeValue(s *swipeState, dx float64) float64 {
	var width float64
	if r.swipeBounds != nil {
		width = r.swipeBounds().Width
	}

	span := r.core.Max.Get() - r.core.Min.Get()

	return r.core.Clamp(s.startValue + sliderRate(dx, width)*span)
}

func findTouch(te *input.TouchEvent, id int) (input.TouchPoint, bool) {
	for _, tp := range te.Touches {
		if tp.ID == id {
			return tp, true
		}
	}

	return input.TouchPoint{}, false
}
