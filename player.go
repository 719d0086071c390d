package omnislider

import "time"

// MediaPlayer is a media player a set of sliders can be bound to.
type MediaPlayer interface {
	MediaStateReporter
	RemoteControl
	VolumeController
	PlaybackRateController
}

// Chapter is a titled time range of the current media.
type Chapter struct {
	Title     string
	StartTime time.Duration
	EndTime   time.Duration
}

// MediaStateReporter retrieves the playback state a time slider follows.
type MediaStateReporter interface {
	// CurrentTime returns the playback position.
	CurrentTime() time.Duration

	// Duration returns the length of the media, or 0 if it is unknown.
	Duration() time.Duration

	// BufferedEnd returns the end of the buffered range.
	BufferedEnd() time.Duration

	IsLive() bool
	IsAtLiveEdge() bool
	IsPlaying() bool

	// Chapters returns the chapter cues ordered by start time.
	Chapters() []Chapter
}

// PlaybackController provides methods for controlling media playback.
type PlaybackController interface {
	Play()
	Pause()
}

// Seeker moves the playback position.
//
// Seeking reports an intermediate position while the user is still
// scrubbing; Seek commits the final one.
type Seeker interface {
	Seeking(pos time.Duration)
	Seek(pos time.Duration)
	SeekToLiveEdge()
}

// ControlsAutoHider suspends hiding the player controls while the user
// interacts with one of them.
type ControlsAutoHider interface {
	PauseControlsAutoHide()
	ResumeControlsAutoHide()
}

// RemoteControl is the sink for actions requested by sliders.
type RemoteControl interface {
	PlaybackController
	Seeker
	ControlsAutoHider
}

// VolumeController retrieves and adjusts the volume of audio output.
type VolumeController interface {
	VolumeLevel() float64
	SetVolumeLevel(level float64)
}

// PlaybackRateController retrieves and adjusts the playback speed.
type PlaybackRateController interface {
	PlaybackRate() float64
	SetPlaybackRate(rate float64)
}
