package slider

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/throttle"
)

// DefaultMoveInterval bounds how often document pointer moves are sampled
// during a drag.
const DefaultMoveInterval = 20 * time.Millisecond

// Delegate supplies the slider-specific parts of input handling.
type Delegate interface {
	// Step returns the step grid used to map pointer positions to values.
	Step() float64

	// KeyStep returns how far an arrow key moves the value.
	KeyStep() float64

	// ShiftKeyMultiplier scales KeyStep while Shift is held.
	ShiftKeyMultiplier() float64

	// Disabled reports whether the slider ignores input.
	Disabled() bool

	// RoundValue rounds a value before it is committed.
	RoundValue(v float64) float64
}

// StaticDelegate is a Delegate with fixed settings.
type StaticDelegate struct {
	StepSize        float64
	KeyStepSize     float64
	ShiftMultiplier float64
	IsDisabled      bool
}

// Step implements Delegate.
func (d *StaticDelegate) Step() float64 { return d.StepSize }

// KeyStep implements Delegate.
func (d *StaticDelegate) KeyStep() float64 { return d.KeyStepSize }

// ShiftKeyMultiplier implements Delegate.
func (d *StaticDelegate) ShiftKeyMultiplier() float64 { return d.ShiftMultiplier }

// Disabled implements Delegate.
func (d *StaticDelegate) Disabled() bool { return d.IsDisabled }

// RoundValue implements Delegate.
func (d *StaticDelegate) RoundValue(v float64) float64 { return v }

// DragSource is the kind of input that started a drag.
type DragSource int

// Drag sources.
const (
	PointerDrag DragSource = iota
	KeyboardDrag
	SwipeDrag
)

// DragSession describes the drag in progress.
type DragSession struct {
	ID         uuid.UUID
	Source     DragSource
	StartValue float64
	StartedAt  time.Time

	// TouchID is the contact that activated a swipe drag.
	TouchID int

	// WasPlaying records whether playback was active before the drag, for
	// sliders that pause while dragging.
	WasPlaying bool
}

// Router drives a Core from pointer, touch and keyboard input.
//
// Pointer listeners are attached to the slider element only while the
// slider is enabled and visible. Document listeners exist only for the
// duration of a pointer drag.
type Router struct {
	emitter

	core     *Core
	delegate Delegate
	bounds   func() input.Rect

	element  *input.Target
	document *input.Target

	swipeSurface *input.Target
	swipeBounds  func() input.Rect

	controls     omnislider.ControlsAutoHider
	clock        schedule.Clock
	moveInterval time.Duration
	move         *throttle.Throttle
	log          zerolog.Logger

	baseListeners     []func()
	pointerListeners  []func()
	documentListeners []func()
	swipeListeners    []func()
	unsubscribe       []func()

	session        *DragSession
	leftDuringDrag bool
	lastDownKey    string
	repeatedKeys   bool
	swipe          *swipeState
	closed         bool
}

// Option configures a Router.
type Option func(*Router)

// WithDocument sets the document-level target that receives pointer moves
// and releases during a drag.
func WithDocument(t *input.Target) Option {
	return func(r *Router) { r.document = t }
}

// WithSwipeSurface enables swipe-to-seek on an alternate surface such as
// the playback canvas. bounds returns the surface rectangle.
func WithSwipeSurface(t *input.Target, bounds func() input.Rect) Option {
	return func(r *Router) {
		r.swipeSurface = t
		r.swipeBounds = bounds
	}
}

// WithControls sets the collaborator whose auto-hide is suspended while
// dragging.
func WithControls(c omnislider.ControlsAutoHider) Option {
	return func(r *Router) { r.controls = c }
}

// WithClock sets the clock used to throttle pointer moves.
func WithClock(c schedule.Clock) Option {
	return func(r *Router) { r.clock = c }
}

// WithMoveInterval sets the pointer move sampling interval.
func WithMoveInterval(d time.Duration) Option {
	return func(r *Router) { r.moveInterval = d }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.log = l }
}

// NewRouter returns a Router that is already listening on element. bounds
// returns the track rectangle in client coordinates.
func NewRouter(core *Core, delegate Delegate, element *input.Target, bounds func() input.Rect, opts ...Option) *Router {
	r := &Router{
		core:         core,
		delegate:     delegate,
		bounds:       bounds,
		element:      element,
		moveInterval: DefaultMoveInterval,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.document == nil {
		r.document = input.NewTarget()
	}
	if r.clock == nil {
		r.moveInterval = 0
	}
	r.move = throttle.New(r.clock, r.moveInterval)

	r.baseListeners = []func(){
		element.Listen(input.KeyDown, r.onKeyDown),
		element.Listen(input.KeyUp, r.onKeyUp),
		element.Listen(input.Focus, r.onFocus),
		element.Listen(input.Blur, r.onBlur),
	}
	r.unsubscribe = append(r.unsubscribe, core.Hidden.Subscribe(func(bool) { r.Refresh() }))

	r.Refresh()

	return r
}

// Core returns the state driven by the router.
func (r *Router) Core() *Core {
	return r.core
}

// Document returns the document-level target.
func (r *Router) Document() *input.Target {
	return r.document
}

// Session returns the drag in progress, or nil. During DragEnd handlers
// it still returns the session being ended.
func (r *Router) Session() *DragSession {
	return r.session
}

// On registers fn for notifications of the given kind and returns a
// function that unregisters it.
func (r *Router) On(kind EventKind, fn Handler) (off func()) {
	return r.on(kind, fn)
}

// Refresh re-evaluates the disabled and hidden state. A slider that
// cannot be interacted with drops its pointer and swipe listeners and
// ends any drag in progress.
func (r *Router) Refresh() {
	if r.closed {
		return
	}

	if r.disabled() || r.core.Hidden.Get() {
		if r.core.Dragging.Get() {
			r.stopDrag(r.core.Value.Get(), nil)
		}
		r.core.Pointing.Set(false)
		r.detach(&r.pointerListeners)
		r.detach(&r.swipeListeners)
		r.swipe = nil
		return
	}

	if r.pointerListeners == nil {
		r.pointerListeners = []func(){
			r.element.Listen(input.PointerEnter, r.onPointerEnter),
			r.element.Listen(input.PointerLeave, r.onPointerLeave),
			r.element.Listen(input.PointerMove, r.onPointerMove),
			r.element.Listen(input.PointerDown, r.onPointerDown),
		}
	}
	if r.swipeSurface != nil && r.swipeListeners == nil {
		r.swipeListeners = []func(){
			r.swipeSurface.Listen(input.TouchStart, r.onSwipeStart),
			r.swipeSurface.Listen(input.TouchMove, r.onSwipeMove),
			r.swipeSurface.Listen(input.TouchEnd, r.onSwipeEnd),
		}
	}
}

// Close removes every listener the router attached. A drag in progress
// ends at the current value with a DragEnd notification that has no
// trigger.
func (r *Router) Close() {
	if r.closed {
		return
	}

	r.stopDrag(r.core.Value.Get(), nil)

	r.closed = true
	r.move.Cancel()
	r.detach(&r.pointerListeners)
	r.detach(&r.documentListeners)
	r.detach(&r.baseListeners)
	r.detach(&r.swipeListeners)
	r.detach(&r.unsubscribe)
}

func (r *Router) detach(listeners *[]func()) {
	for _, remove := range *listeners {
		remove()
	}
	*listeners = nil
}

func (r *Router) disabled() bool {
	return r.delegate.Disabled()
}

func (r *Router) syncStep() {
	r.core.SetStep(r.delegate.Step())
}

func (r *Router) now() time.Time {
	if r.clock == nil {
		return time.Now()
	}

	return r.clock.Now()
}

func (r *Router) valueFromPointer(pe *input.PointerEvent) float64 {
	rect := r.bounds()

	var rate float64
	if r.core.Orientation() == Vertical {
		rate = (rect.Bottom() - pe.ClientY) / rect.Height
	} else {
		rate = (pe.ClientX - rect.Left) / rect.Width
	}
	if !isFinite(rate) {
		rate = 0
	}

	return r.core.ValueFromRate(rate)
}

func (r *Router) onPointerEnter(ev input.Event) {
	if r.disabled() {
		return
	}
	r.leftDuringDrag = false
	r.core.Pointing.Set(true)
}

func (r *Router) onPointerLeave(ev input.Event) {
	if r.core.Dragging.Get() {
		r.leftDuringDrag = true
		return
	}
	r.core.Pointing.Set(false)
}

func (r *Router) onPointerMove(ev input.Event) {
	pe, ok := ev.(*input.PointerEvent)
	if !ok || r.disabled() || r.core.Dragging.Get() {
		return
	}

	r.syncStep()
	r.updatePointerValue(r.valueFromPointer(pe), pe)
}

func (r *Router) onPointerDown(ev input.Event) {
	pe, ok := ev.(*input.PointerEvent)
	if !ok || !pe.IsPrimary() || r.disabled() {
		return
	}

	r.syncStep()
	value := r.valueFromPointer(pe)
	r.startDrag(value, pe, PointerDrag)
	r.updatePointerValue(value, pe)
}

func (r *Router) onDocumentPointerMove(ev input.Event) {
	pe, ok := ev.(*input.PointerEvent)
	if !ok {
		return
	}

	r.move.Schedule(func() {
		if !r.core.Dragging.Get() {
			return
		}
		r.updatePointerValue(r.valueFromPointer(pe), pe)
	})
}

func (r *Router) onDocumentPointerUp(ev input.Event) {
	pe, ok := ev.(*input.PointerEvent)
	if !ok || !pe.IsPrimary() || !r.core.Dragging.Get() {
		return
	}

	r.move.Cancel()
	value := r.valueFromPointer(pe)
	r.updatePointerValue(value, pe)
	r.stopDrag(value, pe)
}

func (r *Router) startDrag(value float64, trigger input.Event, source DragSource) {
	if r.core.Dragging.Get() {
		return
	}

	r.session = &DragSession{
		ID:         uuid.New(),
		Source:     source,
		StartValue: value,
		StartedAt:  r.now(),
	}
	if source == PointerDrag {
		r.documentListeners = []func(){
			r.document.Listen(input.PointerMove, r.onDocumentPointerMove),
			r.document.Listen(input.PointerUp, r.onDocumentPointerUp),
		}
	}

	r.core.Dragging.Set(true)
	if r.controls != nil {
		r.controls.PauseControlsAutoHide()
	}

	r.log.Debug().
		Str("drag_id", r.session.ID.String()).
		Float64("value", value).
		Msg("drag started")

	r.emit(Event{Kind: DragStart, Value: value, Trigger: trigger})
}

func (r *Router) stopDrag(value float64, trigger input.Event) {
	if !r.core.Dragging.Get() {
		return
	}

	r.move.Cancel()
	r.detach(&r.documentListeners)
	r.core.Dragging.Set(false)
	if r.controls != nil {
		r.controls.ResumeControlsAutoHide()
	}
	if r.leftDuringDrag {
		r.leftDuringDrag = false
		r.core.Pointing.Set(false)
	}

	final := r.core.Value.Get()
	if r.session != nil {
		r.log.Debug().
			Str("drag_id", r.session.ID.String()).
			Float64("value", final).
			Dur("elapsed", r.now().Sub(r.session.StartedAt)).
			Msg("drag ended")
	}

	r.emit(Event{Kind: DragEnd, Value: final, Trigger: trigger})
	r.session = nil
}

// updatePointerValue moves the pointer value and, while dragging, the
// value with it.
func (r *Router) updatePointerValue(value float64, trigger input.Event) {
	r.core.setPointerValue(value)
	pointer := r.core.PointerValue.Get()
	r.emit(Event{Kind: PointerValueChange, Value: pointer, Trigger: trigger})

	if !r.core.Dragging.Get() {
		return
	}

	r.updateValue(pointer, trigger)
	r.emit(Event{Kind: DragValueChange, Value: r.core.Value.Get(), Trigger: trigger})
}

func (r *Router) updateValue(value float64, trigger input.Event) {
	if r.core.setValue(r.delegate.RoundValue(value)) {
		r.emit(Event{Kind: ValueChange, Value: r.core.Value.Get(), Trigger: trigger})
	}
}

func (r *Router) onFocus(ev input.Event) {
	r.core.Focused.Set(true)
}

func (r *Router) onBlur(ev input.Event) {
	r.core.Focused.Set(false)
	r.lastDownKey = ""
	r.repeatedKeys = false

	if r.session != nil && r.session.Source == KeyboardDrag {
		r.stopDrag(r.core.Value.Get(), ev)
	}
}

func sliderRate(delta, width float64) float64 {
	rate := delta / width
	if !isFinite(rate) {
		return 0
	}

	return rate
}
