// Package timeslider binds a slider to the playback position of a media
// player. The slider works in percent of the media duration; positions
// cross the player boundary as time.Duration.
package timeslider

import (
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/chapters"
	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/internal/timefmt"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/slider"
	"github.com/ericyan/omnislider/throttle"
)

// liveEdgePercent is the release position at or beyond which a live
// stream jumps back to its live edge.
const liveEdgePercent = 99

// valuePrecision is the number of decimals kept on committed percents.
const valuePrecision = 3

// Slider is a seek slider.
type Slider struct {
	media  omnislider.MediaStateReporter
	remote omnislider.RemoteControl
	sched  schedule.Scheduler

	opts        Options
	orientation slider.Orientation
	routerOpts  []slider.Option
	log         zerolog.Logger

	core     *slider.Core
	delegate *delegate
	router   *slider.Router
	output   *slider.Output
	segments *chapters.Segmentation
	seeking  *throttle.Throttle

	disabled bool
	duration time.Duration
	live     bool
	buffered float64
	chapters []omnislider.Chapter

	lastSeeking time.Duration
	seekingSent bool

	sinks []func(Frame)
	off   []func()
}

// New returns a seek slider listening on element and following media.
// Requested actions are sent to remote. bounds returns the track rectangle.
func New(sched schedule.Scheduler, media omnislider.MediaStateReporter, remote omnislider.RemoteControl, element *input.Target, bounds func() input.Rect, opts ...Option) *Slider {
	s := &Slider{
		media:  media,
		remote: remote,
		sched:  sched,
		opts:   DefaultOptions(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.core = slider.NewCore(
		slider.WithRange(0, 100),
		slider.WithOrientation(s.orientation),
	)
	s.segments = chapters.New(nil)
	s.seeking = throttle.New(sched, s.opts.SeekingRequestThrottle)

	routerOpts := append([]slider.Option{
		slider.WithClock(sched),
		slider.WithControls(remote),
		slider.WithLogger(s.log),
	}, s.routerOpts...)
	s.delegate = &delegate{s}
	s.router = slider.NewRouter(s.core, s.delegate, element, bounds, routerOpts...)

	s.output = slider.NewOutput(s.core, sched)
	s.output.Sink(s.publish)

	s.off = []func(){
		s.router.On(slider.DragStart, s.onDragStart),
		s.router.On(slider.DragValueChange, s.onDragValueChange),
		s.router.On(slider.DragEnd, s.onDragEnd),
		s.router.On(slider.ValueChange, s.onValueChange),
		s.core.Value.Subscribe(func(float64) { s.segments.UpdateFill(s.core.FillPercent()) }),
		s.core.PointerValue.Subscribe(func(float64) { s.updatePointer() }),
		s.core.Pointing.Subscribe(func(bool) { s.updatePointer() }),
		s.core.Dragging.Subscribe(func(bool) { s.updatePointer() }),
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

// SetDisabled enables or disables input.
func (s *Slider) SetDisabled(disabled bool) {
	s.disabled = disabled
	s.router.Refresh()
}

// SetHidden shows or hides the slider. A hidden slider ignores pointer
// input.
func (s *Slider) SetHidden(hidden bool) {
	s.core.Hidden.Set(hidden)
}

// Sync pulls the playback state from the media. The value follows the
// current time unless a drag is in progress.
func (s *Slider) Sync() {
	changed := false

	if d, live := s.media.Duration(), s.media.IsLive(); d != s.duration || live != s.live {
		s.duration, s.live = d, live
		changed = true
	}
	s.core.SetStep(s.step())

	if s.syncChapters() {
		changed = true
	}

	if !s.core.Dragging.Get() {
		s.core.SetValue(s.TimeToPercent(s.media.CurrentTime()))
	}

	if b := s.percentOf(s.media.BufferedEnd()); b != s.buffered {
		s.buffered = b
		s.segments.UpdateBuffered(b)
		changed = true
	}

	s.router.Refresh()
	if changed {
		s.output.Invalidate()
	}
}

func (s *Slider) syncChapters() bool {
	chs := s.media.Chapters()
	if slices.Equal(chs, s.chapters) {
		return false
	}
	s.chapters = slices.Clone(chs)

	if len(chs) == 0 {
		s.segments.Clear()
	} else {
		s.segments.SetCues(chapters.FromChapters(chs))
	}
	s.log.Debug().Int("chapters", len(chs)).Int("segments", s.segments.Len()).Msg("chapters changed")

	return true
}

// SeekTo moves the slider to percent and seeks there, as a discrete
// change made by the user would. It does nothing during a drag or while
// the slider is disabled.
func (s *Slider) SeekTo(percent float64) {
	if s.core.Dragging.Get() || s.delegate.Disabled() || math.IsNaN(percent) {
		return
	}

	s.core.SetValue(percent)
	s.commit(s.core.Value.Get(), false)
}

// PercentToTime converts a slider percent into a media position.
func (s *Slider) PercentToTime(p float64) time.Duration {
	if math.IsNaN(p) {
		return 0
	}
	p = math.Max(0, math.Min(100, p))

	return timefmt.Seconds(p / 100 * s.media.Duration().Seconds())
}

// TimeToPercent converts a media position into a slider percent. At the
// live edge it is always 100; an unknown duration yields 0.
func (s *Slider) TimeToPercent(t time.Duration) float64 {
	if s.media.IsAtLiveEdge() {
		return 100
	}

	return s.percentOf(t)
}

func (s *Slider) percentOf(t time.Duration) float64 {
	d := s.media.Duration().Seconds()

	rate := math.Min(t.Seconds(), d) / d
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}

	return math.Max(0, math.Min(1, rate)) * 100
}

// percentStep converts a time step into percent of the duration, falling
// back to 1 when the duration is unknown.
func (s *Slider) percentStep(step time.Duration) float64 {
	p := step.Seconds() / s.media.Duration().Seconds() * 100
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 1
	}

	return p
}

func (s *Slider) step() float64 {
	return s.percentStep(s.opts.Step)
}

func (s *Slider) updatePointer() {
	s.segments.UpdatePointer(s.core.PointerPercent(), s.core.Pointing.Get() || s.core.Dragging.Get())
}

func (s *Slider) onDragStart(ev slider.Event) {
	s.seekingSent = false

	if !s.opts.PauseWhileDragging {
		return
	}
	if session := s.router.Session(); session != nil && s.media.IsPlaying() {
		session.WasPlaying = true
		s.remote.Pause()
	}
}

func (s *Slider) onDragValueChange(ev slider.Event) {
	pos := s.PercentToTime(ev.Value)
	s.seeking.Schedule(func() { s.dispatchSeeking(pos) })
}

func (s *Slider) onDragEnd(ev slider.Event) {
	resume := false
	if session := s.router.Session(); session != nil {
		resume = session.WasPlaying
	}

	s.commit(ev.Value, resume)
}

// A discrete change made by the user outside a drag seeks right away.
func (s *Slider) onValueChange(ev slider.Event) {
	if ev.Trigger == nil || s.core.Dragging.Get() {
		return
	}

	s.commit(ev.Value, false)
}

func (s *Slider) dispatchSeeking(pos time.Duration) {
	s.lastSeeking = pos
	s.seekingSent = true
	s.remote.Seeking(pos)
}

// commit sends the terminal seek for percent. The last seeking
// notification always carries the committed position.
func (s *Slider) commit(percent float64, resume bool) {
	pos := s.PercentToTime(percent)

	s.seeking.Cancel()
	if !s.seekingSent || s.lastSeeking != pos {
		s.dispatchSeeking(pos)
	}
	s.seekingSent = false

	if s.media.IsLive() && percent >= liveEdgePercent {
		s.log.Debug().Float64("percent", percent).Msg("seek to live edge")
		s.remote.SeekToLiveEdge()
	} else {
		s.log.Debug().Dur("position", pos).Float64("percent", percent).Msg("seek")
		s.remote.Seek(pos)
	}

	if resume {
		s.remote.Play()
	}
}

// Close detaches the slider from its input targets and stops publishing
// frames. A drag in progress is committed first, resuming playback if the
// drag paused it.
func (s *Slider) Close() {
	s.router.Close()
	s.seeking.Cancel()
	s.output.Close()
	for _, off := range s.off {
		off()
	}
	s.off = nil
}

type delegate struct {
	s *Slider
}

func (d *delegate) Step() float64 {
	return d.s.step()
}

func (d *delegate) KeyStep() float64 {
	return d.s.percentStep(d.s.opts.KeyStep)
}

func (d *delegate) ShiftKeyMultiplier() float64 {
	return d.s.opts.ShiftKeyMultiplier
}

func (d *delegate) Disabled() bool {
	return d.s.disabled || d.s.media.Duration() <= 0
}

func (d *delegate) RoundValue(v float64) float64 {
	p := math.Pow10(valuePrecision)

	return math.Round(v*p) / p
}
