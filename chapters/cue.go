// Package chapters overlays chapter boundaries onto a seek slider's
// progress track.
package chapters

import (
	"math"
	"sort"

	"github.com/ericyan/omnislider"
)

// Cue is a chapter time range in seconds. Filler segments inserted
// between chapters have an empty Label.
type Cue struct {
	StartTime float64
	EndTime   float64
	Label     string
}

// Duration returns the length of the cue in seconds.
func (c Cue) Duration() float64 {
	return c.EndTime - c.StartTime
}

// Build orders cues by start time and fills every positive gap between two
// consecutive cues with an unlabeled segment. Gaps before the first cue and
// after the last one are left alone. Cues with non-finite bounds or ending
// before they start are dropped.
func Build(cues []Cue) []Cue {
	valid := make([]Cue, 0, len(cues))
	for _, c := range cues {
		if !isFinite(c.StartTime) || !isFinite(c.EndTime) || c.EndTime < c.StartTime {
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartTime < valid[j].StartTime
	})

	segments := make([]Cue, 0, len(valid)*2-1)
	for i := 0; i < len(valid)-1; i++ {
		current, next := valid[i], valid[i+1]
		segments = append(segments, current)

		if next.StartTime-current.EndTime > 0 {
			segments = append(segments, Cue{
				StartTime: current.EndTime,
				EndTime:   next.StartTime,
			})
		}
	}
	segments = append(segments, valid[len(valid)-1])

	return segments
}

// FromChapters converts media chapters into cues.
func FromChapters(chs []omnislider.Chapter) []Cue {
	if len(chs) == 0 {
		return nil
	}

	cues := make([]Cue, 0, len(chs))
	for _, ch := range chs {
		cues = append(cues, Cue{
			StartTime: ch.StartTime.Seconds(),
			EndTime:   ch.EndTime.Seconds(),
			Label:     ch.Title,
		})
	}

	return cues
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
