package timeslider

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/slider"
)

// Defaults used when no Options are given.
const (
	DefaultStep                   = 100 * time.Millisecond
	DefaultKeyStep                = 5 * time.Second
	DefaultShiftKeyMultiplier     = 2
	DefaultSeekingRequestThrottle = 100 * time.Millisecond
)

// Options tunes how a time slider maps input onto the timeline.
type Options struct {
	// Step is the time grid pointer positions snap to.
	Step time.Duration

	// KeyStep is how far an arrow key moves the position.
	KeyStep time.Duration

	// ShiftKeyMultiplier scales KeyStep while Shift is held.
	ShiftKeyMultiplier float64

	// PauseWhileDragging pauses playback for the duration of a drag and
	// resumes it after the final seek.
	PauseWhileDragging bool

	// SeekingRequestThrottle bounds how often seeking notifications are
	// sent during a drag.
	SeekingRequestThrottle time.Duration
}

// DefaultOptions returns the default Options.
func DefaultOptions() Options {
	return Options{
		Step:                   DefaultStep,
		KeyStep:                DefaultKeyStep,
		ShiftKeyMultiplier:     DefaultShiftKeyMultiplier,
		SeekingRequestThrottle: DefaultSeekingRequestThrottle,
	}
}

// Option configures a Slider.
type Option func(*Slider)

// WithOptions replaces the default Options.
func WithOptions(o Options) Option {
	return func(s *Slider) { s.opts = o }
}

// WithDocument sets the document-level target that receives pointer moves
// and releases during a drag.
func WithDocument(t *input.Target) Option {
	return func(s *Slider) {
		s.routerOpts = append(s.routerOpts, slider.WithDocument(t))
	}
}

// WithSwipeSurface enables swipe-to-seek on an alternate surface, such as
// the playback canvas.
func WithSwipeSurface(t *input.Target, bounds func() input.Rect) Option {
	return func(s *Slider) {
		s.routerOpts = append(s.routerOpts, slider.WithSwipeSurface(t, bounds))
	}
}

// WithMoveInterval sets the pointer move sampling interval.
func WithMoveInterval(d time.Duration) Option {
	return func(s *Slider) {
		s.routerOpts = append(s.routerOpts, slider.WithMoveInterval(d))
	}
}

// WithOrientation sets the track orientation.
func WithOrientation(o slider.Orientation) Option {
	return func(s *Slider) { s.orientation = o }
}

// WithLogger sets the logger. It is shared with the underlying router.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Slider) { s.log = l }
}
