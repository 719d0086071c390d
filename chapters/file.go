package chapters

import (
	"context"
	"fmt"
	"time"

	"github.com/simonhull/audiometa"
)

// LoadFile reads the chapter markers embedded in an audio file (M4B/M4A,
// MP3, FLAC, Ogg) and returns them as cues along with the file duration.
func LoadFile(ctx context.Context, path string) ([]Cue, time.Duration, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return fromAudioChapters(file.Chapters, file.Audio.Duration), file.Audio.Duration, nil
}

// fromAudioChapters converts audiometa chapters into cues. A chapter
// without an end runs until the next chapter starts, or until the end of
// the file for the last one.
func fromAudioChapters(chs []audiometa.Chapter, duration time.Duration) []Cue {
	if len(chs) == 0 {
		return nil
	}

	cues := make([]Cue, 0, len(chs))
	for i, ch := range chs {
		end := ch.EndTime
		if end <= ch.StartTime {
			switch {
			case i+1 < len(chs):
				end = chs[i+1].StartTime
			case duration > ch.StartTime:
				end = duration
			}
		}

		cues = append(cues, Cue{
			StartTime: ch.StartTime.Seconds(),
			EndTime:   end.Seconds(),
			Label:     ch.Title,
		})
	}

	return cues
}
