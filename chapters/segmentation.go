package chapters

import "math"

// SegmentState is a segment together with its share of the global fill,
// buffered and pointer percents.
type SegmentState struct {
	Cue

	// Fill and Buffered are local percents in [0, 100].
	Fill     float64
	Buffered float64

	// Pointing is set on the segment under the hovered or dragged pointer.
	Pointing bool
}

// Segmentation maintains per-segment percents for a chapter track.
//
// Fill updates scan forward from the previously active segment and only
// rescan from the start after a backward seek. Buffered updates only ever
// scan forward, assuming the buffered extent never shrinks. Pointer
// updates always scan from the start.
type Segmentation struct {
	segments []SegmentState
	lastEnd  float64

	fillIndex     int
	bufferedIndex int
	pointerIndex  int

	fill     float64
	buffered float64
	pointer  float64
	pointing bool
}

// New returns a Segmentation for cues. See Build for how cues are turned
// into segments.
func New(cues []Cue) *Segmentation {
	s := &Segmentation{}
	s.SetCues(cues)

	return s
}

// SetCues rebuilds the segments and recomputes them from the last global
// percents. All cached indices are reset.
func (s *Segmentation) SetCues(cues []Cue) {
	s.reset()

	built := Build(cues)
	if len(built) == 0 {
		return
	}

	lastEnd := built[len(built)-1].EndTime
	if lastEnd <= 0 {
		return
	}

	s.lastEnd = lastEnd
	s.segments = make([]SegmentState, len(built))
	for i, c := range built {
		s.segments[i] = SegmentState{Cue: c}
	}

	s.UpdateFill(s.fill)
	s.UpdateBuffered(s.buffered)
	s.UpdatePointer(s.pointer, s.pointing)
}

// Clear removes all segments.
func (s *Segmentation) Clear() {
	s.reset()
}

func (s *Segmentation) reset() {
	s.segments = nil
	s.lastEnd = 0
	s.fillIndex = 0
	s.bufferedIndex = 0
	s.pointerIndex = -1
}

// Len returns the number of segments.
func (s *Segmentation) Len() int {
	return len(s.segments)
}

// Segments returns a copy of the current segment states.
func (s *Segmentation) Segments() []SegmentState {
	if len(s.segments) == 0 {
		return nil
	}

	return append([]SegmentState(nil), s.segments...)
}

// ActiveIndex returns the index of the segment containing the fill
// position, or -1 without segments.
func (s *Segmentation) ActiveIndex() int {
	if len(s.segments) == 0 {
		return -1
	}

	return s.fillIndex
}

// PointerIndex returns the index of the segment under the pointer, or -1
// if the pointer is not over the slider.
func (s *Segmentation) PointerIndex() int {
	return s.pointerIndex
}

// ActiveSegment returns the segment containing the fill position.
func (s *Segmentation) ActiveSegment() (SegmentState, bool) {
	i := s.ActiveIndex()
	if i < 0 {
		return SegmentState{}, false
	}

	return s.segments[i], true
}

// UpdateFill distributes the global fill percent p over the segments.
func (s *Segmentation) UpdateFill(p float64) {
	p = clampPercent(p)
	s.fill = p

	n := len(s.segments)
	if n == 0 {
		return
	}
	if n == 1 {
		s.segments[0].Fill = p
		return
	}

	start := s.fillIndex
	if p/100*s.lastEnd <= s.segments[s.fillIndex].StartTime {
		start = 0
	}

	current := s.findActive(start, p)
	if current > s.fillIndex {
		for i := s.fillIndex; i < current; i++ {
			s.segments[i].Fill = 100
		}
	} else if current < s.fillIndex {
		for i := current + 1; i <= s.fillIndex; i++ {
			s.segments[i].Fill = 0
		}
	}

	s.segments[current].Fill = s.localPercent(current, p)
	s.fillIndex = current
}

// UpdateBuffered distributes the global buffered percent p over the
// segments.
func (s *Segmentation) UpdateBuffered(p float64) {
	p = clampPercent(p)
	s.buffered = p

	n := len(s.segments)
	if n == 0 {
		return
	}
	if n == 1 {
		s.segments[0].Buffered = p
		return
	}

	current := s.findActive(s.bufferedIndex, p)
	for i := s.bufferedIndex; i < current; i++ {
		s.segments[i].Buffered = 100
	}

	s.segments[current].Buffered = s.localPercent(current, p)
	s.bufferedIndex = current
}

// UpdatePointer marks the segment under the global pointer percent p.
// When pointing is false no segment is marked.
func (s *Segmentation) UpdatePointer(p float64, pointing bool) {
	p = clampPercent(p)
	s.pointer = p
	s.pointing = pointing

	if s.pointerIndex >= 0 && s.pointerIndex < len(s.segments) {
		s.segments[s.pointerIndex].Pointing = false
	}
	s.pointerIndex = -1

	if !pointing || len(s.segments) == 0 {
		return
	}

	i := 0
	if len(s.segments) > 1 {
		i = s.findActive(0, p)
	}
	s.segments[i].Pointing = true
	s.pointerIndex = i
}

// localPercent projects the global percent p onto segment i.
func (s *Segmentation) localPercent(i int, p float64) float64 {
	seg := s.segments[i]
	start := seg.StartTime / s.lastEnd * 100
	end := seg.EndTime / s.lastEnd * 100

	if p >= end {
		return 100
	}

	local := (p - start) / (end - start) * 100
	if math.IsNaN(local) {
		return 0
	}

	return math.Max(0, local)
}

// findActive returns the first segment at or after start whose local
// percent is below 100. Past the last segment it returns the last index.
func (s *Segmentation) findActive(start int, p float64) int {
	for i := start; i < len(s.segments); i++ {
		if local := s.localPercent(i, p); local >= 0 && local < 100 {
			return i
		}
	}

	return len(s.segments) - 1
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}

	return math.Max(0, math.Min(100, p))
}
