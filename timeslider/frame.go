package timeslider

import (
	"github.com/ericyan/omnislider/chapters"
	"github.com/ericyan/omnislider/internal/timefmt"
	"github.com/ericyan/omnislider/slider"
)

// liveText is displayed instead of a position when there is no timeline
// to show.
const liveText = "LIVE"

// Frame is the presentation state of a time slider at one display frame.
type Frame struct {
	slider.Vars

	BufferedPercent float64

	// Segments holds per-chapter state. It is empty without chapters.
	Segments []chapters.SegmentState

	// ActiveSegment and PointerSegment index Segments, or are -1.
	ActiveSegment  int
	PointerSegment int

	// Text is the hovered or current position as h:mm:ss, or LIVE.
	Text string
}

// Sink registers fn to receive a Frame whenever the slider changes. Several
// changes within one display frame result in a single call.
func (s *Slider) Sink(fn func(Frame)) {
	s.sinks = append(s.sinks, fn)
}

// Snapshot returns the current Frame.
func (s *Slider) Snapshot() Frame {
	return s.frame(s.core.Snapshot())
}

// ActiveChapter returns the chapter segment being played.
func (s *Slider) ActiveChapter() (chapters.SegmentState, bool) {
	return s.segments.ActiveSegment()
}

// Text returns the display text for the hovered or current position.
func (s *Slider) Text() string {
	if s.media.Duration() <= 0 {
		return liveText
	}

	interacting := s.core.Pointing.Get() || s.core.Dragging.Get()
	if !interacting && s.media.IsAtLiveEdge() {
		return liveText
	}

	percent := s.core.Value.Get()
	if interacting {
		percent = s.core.PointerValue.Get()
	}

	return timefmt.FormatDuration(s.PercentToTime(percent))
}

func (s *Slider) frame(v slider.Vars) Frame {
	return Frame{
		Vars:            v,
		BufferedPercent: s.buffered,
		Segments:        s.segments.Segments(),
		ActiveSegment:   s.segments.ActiveIndex(),
		PointerSegment:  s.segments.PointerIndex(),
		Text:            s.Text(),
	}
}

func (s *Slider) publish(v slider.Vars) {
	f := s.frame(v)
	for _, sink := range s.sinks {
		sink(f)
	}
}
