// Package mediaslider provides the volume and playback speed sliders.
package mediaslider

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/slider"
	"github.com/ericyan/omnislider/throttle"
)

// DefaultDispatchInterval bounds how often a dragged value is sent to the
// player.
const DefaultDispatchInterval = 25 * time.Millisecond

// Slider mirrors one player setting. User changes are sent to the player
// through a throttle; the last change of a drag is sent on release.
type Slider struct {
	name  string
	get   func() float64
	set   func(float64)
	scale float64

	core     *slider.Core
	router   *slider.Router
	delegate *slider.StaticDelegate
	dispatch *throttle.Throttle
	log      zerolog.Logger

	off []func()
}

type settings struct {
	min, max float64
	step     float64
	keyStep  float64
	shift    float64
	interval time.Duration

	orientation slider.Orientation
	routerOpts  []slider.Option
	log         zerolog.Logger
}

// Option configures a Slider.
type Option func(*settings)

// WithRange overrides the bounds.
func WithRange(min, max float64) Option {
	return func(s *settings) { s.min, s.max = min, max }
}

// WithStep overrides the step grid.
func WithStep(step float64) Option {
	return func(s *settings) { s.step = step }
}

// WithKeyStep overrides how far arrow keys move the value, and the factor
// applied while Shift is held.
func WithKeyStep(step, shiftMultiplier float64) Option {
	return func(s *settings) { s.keyStep, s.shift = step, shiftMultiplier }
}

// WithDispatchInterval overrides DefaultDispatchInterval.
func WithDispatchInterval(d time.Duration) Option {
	return func(s *settings) { s.interval = d }
}

// WithOrientation sets the track orientation.
func WithOrientation(o slider.Orientation) Option {
	return func(s *settings) { s.orientation = o }
}

// WithDocument sets the document-level target used during drags.
func WithDocument(t *input.Target) Option {
	return func(s *settings) { s.routerOpts = append(s.routerOpts, slider.WithDocument(t)) }
}

// WithControls sets the collaborator whose auto-hide is suspended while
// dragging.
func WithControls(c omnislider.ControlsAutoHider) Option {
	return func(s *settings) { s.routerOpts = append(s.routerOpts, slider.WithControls(c)) }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// NewVolume returns a volume slider over [0, 100] driving vc.
func NewVolume(clock schedule.Clock, vc omnislider.VolumeController, element *input.Target, bounds func() input.Rect, opts ...Option) *Slider {
	st := settings{min: 0, max: 100, step: 1, keyStep: 5, shift: 2}

	return newSlider("volume", st, clock, vc.VolumeLevel, vc.SetVolumeLevel, 100, element, bounds, opts)
}

// NewSpeed returns a playback speed slider over [0.25, 2] driving pc.
func NewSpeed(clock schedule.Clock, pc omnislider.PlaybackRateController, element *input.Target, bounds func() input.Rect, opts ...Option) *Slider {
	st := settings{min: 0.25, max: 2, step: 0.25, keyStep: 0.25, shift: 2}

	return newSlider("speed", st, clock, pc.PlaybackRate, pc.SetPlaybackRate, 1, element, bounds, opts)
}

func newSlider(name string, st settings, clock schedule.Clock, get func() float64, set func(float64), scale float64, element *input.Target, bounds func() input.Rect, opts []Option) *Slider {
	st.interval = DefaultDispatchInterval
	st.log = zerolog.Nop()
	for _, opt := range opts {
		opt(&st)
	}

	s := &Slider{
		name:  name,
		get:   get,
		set:   set,
		scale: scale,
		core: slider.NewCore(
			slider.WithRange(st.min, st.max),
			slider.WithStep(st.step),
			slider.WithOrientation(st.orientation),
		),
		delegate: &slider.StaticDelegate{
			StepSize:        st.step,
			KeyStepSize:     st.keyStep,
			ShiftMultiplier: st.shift,
		},
		dispatch: throttle.New(clock, st.interval),
		log:      st.log,
	}

	routerOpts := append([]slider.Option{slider.WithClock(clock), slider.WithLogger(st.log)}, st.routerOpts...)
	s.router = slider.NewRouter(s.core, s.delegate, element, bounds, routerOpts...)

	s.off = []func(){
		s.router.On(slider.ValueChange, s.onValueChange),
		s.router.On(slider.DragEnd, s.onDragEnd),
	}

	s.Sync()

	return s
}

// Core returns the slider state.
func (s *Slider) Core() *slider.Core {
	return s.core
}

// Router returns the input router driving the slider.
func (s *Slider) Router() *slider.Router {
	return s.router
}

// Value returns the slider value in player units.
func (s *Slider) Value() float64 {
	return s.core.Value.Get() / s.scale
}

// SetDisabled enables or disables input.
func (s *Slider) SetDisabled(disabled bool) {
	s.delegate.IsDisabled = disabled
	s.router.Refresh()
}

// Sync pulls the setting from the player unless a drag is in progress.
func (s *Slider) Sync() {
	if s.core.Dragging.Get() {
		return
	}
	s.core.SetValue(s.get() * s.scale)
}

// Close detaches the slider from its input targets. A drag in progress
// dispatches its last value; any other pending dispatch is dropped.
func (s *Slider) Close() {
	s.router.Close()
	s.dispatch.Cancel()
	for _, off := range s.off {
		off()
	}
	s.off = nil
}

func (s *Slider) onValueChange(ev slider.Event) {
	v := ev.Value / s.scale
	s.dispatch.Schedule(func() {
		s.log.Debug().Str("slider", s.name).Float64("value", v).Msg("dispatch")
		s.set(v)
	})
}

func (s *Slider) onDragEnd(slider.Event) {
	s.dispatch.Flush()
}
