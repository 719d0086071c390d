package chapters

import (
	"math"
	"testing"
	"time"

	"github.com/simonhull/audiometa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider"
)

func TestBuildFillsGaps(t *testing.T) {
	got := Build([]Cue{{0, 5, "A"}, {10, 15, "B"}})

	assert.Equal(t, []Cue{{0, 5, "A"}, {5, 10, ""}, {10, 15, "B"}}, got)
}

func TestBuildSpanIsCovered(t *testing.T) {
	cues := []Cue{{2, 4, "a"}, {4, 9, "b"}, {12, 20, "c"}, {21, 30, "d"}}
	segments := Build(cues)

	total := 0.0
	for i, seg := range segments {
		total += seg.Duration()
		if i > 0 {
			assert.Equal(t, segments[i-1].EndTime, seg.StartTime, "segment %d is contiguous", i)
		}
	}
	assert.Equal(t, 30.0-2.0, total)
	assert.Len(t, segments, 6)
}

func TestBuildLeavesOuterGaps(t *testing.T) {
	segments := Build([]Cue{{10, 20, "a"}, {20, 25, "b"}})

	require.Len(t, segments, 2)
	assert.Equal(t, 10.0, segments[0].StartTime)
	assert.Equal(t, 25.0, segments[1].EndTime)
}

func TestBuildSortsAndDropsInvalid(t *testing.T) {
	segments := Build([]Cue{
		{20, 30, "late"},
		{0, 10, "early"},
		{5, 4, "reversed"},
		{math.NaN(), 3, "nan"},
	})

	assert.Equal(t, []Cue{{0, 10, "early"}, {10, 20, ""}, {20, 30, "late"}}, segments)
	assert.Nil(t, Build(nil))
}

func fills(s *Segmentation) []float64 {
	var out []float64
	for _, seg := range s.Segments() {
		out = append(out, seg.Fill)
	}

	return out
}

func TestSegmentationFillTwoHalves(t *testing.T) {
	s := New([]Cue{{0, 50, "one"}, {50, 100, "two"}})

	s.UpdateFill(75)
	assert.Equal(t, []float64{100, 50}, fills(s))
	assert.Equal(t, 1, s.ActiveIndex())

	active, ok := s.ActiveSegment()
	require.True(t, ok)
	assert.Equal(t, "two", active.Label)
}

func TestSegmentationForwardSkipSnapsTo100(t *testing.T) {
	s := New([]Cue{{0, 10, "a"}, {10, 20, "b"}, {20, 30, "c"}, {30, 40, "d"}})

	s.UpdateFill(20)
	assert.InDeltaSlice(t, []float64{80, 0, 0, 0}, fills(s), 1e-9)
	assert.Equal(t, 0, s.ActiveIndex())

	s.UpdateFill(30)
	assert.InDeltaSlice(t, []float64{100, 20, 0, 0}, fills(s), 1e-9)
	assert.Equal(t, 1, s.ActiveIndex())

	s.UpdateFill(80)
	assert.InDeltaSlice(t, []float64{100, 100, 100, 20}, fills(s), 1e-9)
	assert.Equal(t, 3, s.ActiveIndex())
}

func TestSegmentationBackwardSeekSnapsTo0(t *testing.T) {
	s := New([]Cue{{0, 10, "a"}, {10, 20, "b"}, {20, 30, "c"}, {30, 40, "d"}})

	s.UpdateFill(90)
	require.Equal(t, 3, s.ActiveIndex())

	s.UpdateFill(30)
	assert.InDeltaSlice(t, []float64{100, 20, 0, 0}, fills(s), 1e-9)
	assert.Equal(t, 1, s.ActiveIndex())

	s.UpdateFill(0)
	assert.Equal(t, []float64{0, 0, 0, 0}, fills(s))
	assert.Equal(t, 0, s.ActiveIndex())
}

func TestSegmentationFillAtEnd(t *testing.T) {
	s := New([]Cue{{0, 50, "one"}, {50, 100, "two"}})

	s.UpdateFill(100)
	assert.Equal(t, []float64{100, 100}, fills(s))
	assert.Equal(t, 1, s.ActiveIndex())

	s.UpdateFill(250)
	assert.Equal(t, []float64{100, 100}, fills(s), "out of range percents are clamped")
}

func TestSegmentationBufferedIsForwardOnly(t *testing.T) {
	s := New([]Cue{{0, 25, "a"}, {25, 50, "b"}, {50, 75, "c"}, {75, 100, "d"}})

	s.UpdateBuffered(60)
	var buffered []float64
	for _, seg := range s.Segments() {
		buffered = append(buffered, seg.Buffered)
	}
	assert.InDeltaSlice(t, []float64{100, 100, 40, 0}, buffered, 1e-9)

	// A shrinking buffered range only updates the cached segment.
	s.UpdateBuffered(10)
	buffered = buffered[:0]
	for _, seg := range s.Segments() {
		buffered = append(buffered, seg.Buffered)
	}
	assert.Equal(t, []float64{100, 100, 0, 0}, buffered)
}

func TestSegmentationPointer(t *testing.T) {
	s := New([]Cue{{0, 25, "a"}, {25, 50, "b"}, {50, 100, "c"}})

	s.UpdatePointer(30, true)
	assert.Equal(t, 1, s.PointerIndex())

	s.UpdatePointer(5, true)
	assert.Equal(t, 0, s.PointerIndex())

	pointing := 0
	for _, seg := range s.Segments() {
		if seg.Pointing {
			pointing++
		}
	}
	assert.Equal(t, 1, pointing)

	s.UpdatePointer(5, false)
	assert.Equal(t, -1, s.PointerIndex())
	for _, seg := range s.Segments() {
		assert.False(t, seg.Pointing)
	}
}

func TestSegmentationSingleSegment(t *testing.T) {
	s := New([]Cue{{0, 300, "only"}})

	s.UpdateFill(42)
	s.UpdateBuffered(64)
	s.UpdatePointer(10, true)

	segs := s.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, 42.0, segs[0].Fill)
	assert.Equal(t, 64.0, segs[0].Buffered)
	assert.True(t, segs[0].Pointing)
}

func TestSegmentationEmptyIsNoop(t *testing.T) {
	s := New(nil)

	s.UpdateFill(50)
	s.UpdateBuffered(50)
	s.UpdatePointer(50, true)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.ActiveIndex())
	assert.Equal(t, -1, s.PointerIndex())
	_, ok := s.ActiveSegment()
	assert.False(t, ok)
}

func TestSegmentationRebuildAndClear(t *testing.T) {
	s := New([]Cue{{0, 10, "a"}, {10, 20, "b"}})
	s.UpdateFill(75)
	require.Equal(t, 1, s.ActiveIndex())

	s.SetCues([]Cue{{0, 10, "a"}, {10, 20, "b"}, {20, 40, "c"}})
	assert.Equal(t, 2, s.ActiveIndex(), "last fill is reapplied to the new track")
	assert.InDeltaSlice(t, []float64{100, 100, 50}, fills(s), 1e-9)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.ActiveIndex())

	s.SetCues([]Cue{{0, 0, "empty"}})
	assert.Equal(t, 0, s.Len(), "a zero-length track has no segments")
}

func TestFromChapters(t *testing.T) {
	cues := FromChapters([]omnislider.Chapter{
		{Title: "Intro", StartTime: 0, EndTime: 90 * time.Second},
		{Title: "Main", StartTime: 90 * time.Second, EndTime: 1500 * time.Millisecond * 100},
	})

	assert.Equal(t, []Cue{{0, 90, "Intro"}, {90, 150, "Main"}}, cues)
	assert.Nil(t, FromChapters(nil))
}

func TestFromAudioChapters(t *testing.T) {
	chs := []audiometa.Chapter{
		{Index: 0, Title: "One", StartTime: 0, EndTime: 0},
		{Index: 1, Title: "Two", StartTime: 60 * time.Second, EndTime: 120 * time.Second},
		{Index: 2, Title: "Three", StartTime: 120 * time.Second},
	}

	cues := fromAudioChapters(chs, 200*time.Second)
	assert.Equal(t, []Cue{{0, 60, "One"}, {60, 120, "Two"}, {120, 200, "Three"}}, cues)
}
