package slider

import (
	"github.com/ericyan/omnislider/input"
)

// keyDirection maps arrow keys to the direction they move the value.
var keyDirection = map[string]float64{
	"Left":       -1,
	"ArrowLeft":  -1,
	"Down":       -1,
	"ArrowDown":  -1,
	"Right":      1,
	"ArrowRight": 1,
	"Up":         1,
	"ArrowUp":    1,
}

// keyStepPrecision is the number of decimals kept when stepping by key.
const keyStepPrecision = 3

func isDigitKey(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}

func isSliderKey(key string) bool {
	if _, ok := keyDirection[key]; ok {
		return true
	}

	switch key {
	case "Home", "End", "PageUp", "PageDown":
		return true
	}

	return isDigitKey(key)
}

// jumpValue returns the value a jump key moves to.
func (r *Router) jumpValue(ke *input.KeyEvent) (float64, bool) {
	min, max := r.core.Min.Get(), r.core.Max.Get()

	switch ke.Key {
	case "Home", "PageUp":
		return min, true
	case "End", "PageDown":
		return max, true
	}

	if !ke.Meta && isDigitKey(ke.Key) {
		digit := float64(ke.Key[0] - '0')
		return (max - min) / 10 * digit, true
	}

	return 0, false
}

// keyValue returns the value an arrow key moves to. While a key is held
// down the pointer value is the reference, so repeated presses accumulate.
func (r *Router) keyValue(ke *input.KeyEvent, direction float64) float64 {
	keyStep := r.delegate.KeyStep()
	if ke.Shift {
		keyStep *= r.delegate.ShiftKeyMultiplier()
	}
	if !isFinite(keyStep) {
		keyStep = sanitizeStep(r.delegate.Step())
	}

	current := r.core.Value.Get()
	if r.repeatedKeys {
		current = r.core.PointerValue.Get()
	}

	return r.core.Clamp(roundTo(current+keyStep*direction, keyStepPrecision))
}

func (r *Router) onKeyDown(ev input.Event) {
	ke, ok := ev.(*input.KeyEvent)
	if !ok || r.disabled() || !isSliderKey(ke.Key) {
		return
	}

	r.syncStep()

	if value, ok := r.jumpValue(ke); ok {
		value = r.core.Clamp(value)
		r.updatePointerValue(value, ke)
		r.updateValue(value, ke)
		return
	}

	direction, ok := keyDirection[ke.Key]
	if !ok {
		return
	}
	value := r.keyValue(ke, direction)

	if !r.repeatedKeys {
		r.repeatedKeys = ke.Key == r.lastDownKey
		if r.repeatedKeys && !r.core.Dragging.Get() {
			r.startDrag(value, ke, KeyboardDrag)
		}
	}

	r.updatePointerValue(value, ke)
	if !r.core.Dragging.Get() {
		r.updateValue(value, ke)
	}
	r.lastDownKey = ke.Key
}

func (r *Router) onKeyUp(ev input.Event) {
	ke, ok := ev.(*input.KeyEvent)
	if !ok || !isSliderKey(ke.Key) {
		return
	}

	r.lastDownKey = ""
	r.repeatedKeys = false

	if r.session != nil && r.session.Source == KeyboardDrag {
		r.stopDrag(r.core.Value.Get(), ke)
	}
}
