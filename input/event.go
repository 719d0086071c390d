// Package input defines the raw input events sliders consume and the
// surfaces they are delivered on.
package input

// Type identifies an input event.
type Type string

// Supported event types.
const (
	PointerEnter Type = "pointerenter"
	PointerLeave Type = "pointerleave"
	PointerDown  Type = "pointerdown"
	PointerMove  Type = "pointermove"
	PointerUp    Type = "pointerup"

	TouchStart Type = "touchstart"
	TouchMove  Type = "touchmove"
	TouchEnd   Type = "touchend"

	KeyDown Type = "keydown"
	KeyUp   Type = "keyup"

	Focus Type = "focus"
	Blur  Type = "blur"
)

// Event is implemented by every input event.
type Event interface {
	Type() Type
}

// PointerKind is the device that produced a pointer event.
type PointerKind string

// Pointer devices.
const (
	Mouse PointerKind = "mouse"
	Pen   PointerKind = "pen"
	Touch PointerKind = "touch"
)

// PrimaryButton is the button number of the main mouse button, a pen
// contact or a touch contact.
const PrimaryButton = 0

// PointerEvent is a pointer event in client coordinates.
type PointerEvent struct {
	Kind    Type
	Pointer PointerKind
	Button  int
	ClientX float64
	ClientY float64
}

// Type implements Event.
func (e *PointerEvent) Type() Type { return e.Kind }

// IsPrimary reports whether the event was produced by the primary button.
func (e *PointerEvent) IsPrimary() bool { return e.Button == PrimaryButton }

// TouchPoint is a single contact of a touch event.
type TouchPoint struct {
	ID      int
	ClientX float64
	ClientY float64
}

// TouchEvent carries the contacts currently on the surface.
type TouchEvent struct {
	Kind    Type
	Touches []TouchPoint
}

// Type implements Event.
func (e *TouchEvent) Type() Type { return e.Kind }

// First returns the first contact, if any.
func (e *TouchEvent) First() (TouchPoint, bool) {
	if len(e.Touches) == 0 {
		return TouchPoint{}, false
	}

	return e.Touches[0], true
}

// KeyEvent is a keyboard event. Key holds the key value, e.g. "ArrowLeft",
// "Home" or "7".
type KeyEvent struct {
	Kind   Type
	Key    string
	Shift  bool
	Meta   bool
	Repeat bool
}

// Type implements Event.
func (e *KeyEvent) Type() Type { return e.Kind }

// FocusEvent reports focus changes.
type FocusEvent struct {
	Kind Type
}

// Type implements Event.
func (e *FocusEvent) Type() Type { return e.Kind }

// Rect is a rectangle in client coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Bottom returns the bottom edge of r.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the right edge of r.
func (r Rect) Right() float64 { return r.Left + r.Width }
