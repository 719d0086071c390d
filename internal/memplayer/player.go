// Package memplayer implements an in-memory media player that records the
// actions sliders request from it.
package memplayer

import (
	"fmt"
	"sync"
	"time"

	"github.com/ericyan/omnislider"
)

// Action is a call made on the player's control surface.
type Action struct {
	Name  string
	Pos   time.Duration
	Level float64
}

// String returns the string representation of the action.
func (a Action) String() string {
	switch a.Name {
	case "seek", "seeking":
		return fmt.Sprintf("%s(%s)", a.Name, a.Pos)
	case "volume", "rate":
		return fmt.Sprintf("%s(%g)", a.Name, a.Level)
	}

	return a.Name + "()"
}

// Player is an omnislider.MediaPlayer holding its state in memory.
type Player struct {
	mu sync.Mutex

	current    time.Duration
	duration   time.Duration
	buffered   time.Duration
	live       bool
	atLiveEdge bool
	playing    bool
	chapters   []omnislider.Chapter
	volume     float64
	rate       float64

	actions []Action
}

// New returns a paused player with full volume at normal speed.
func New() *Player {
	return &Player{volume: 1, rate: 1}
}

func (p *Player) record(a Action) {
	p.actions = append(p.actions, a)
}

// Actions returns the actions recorded so far.
func (p *Player) Actions() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]Action(nil), p.actions...)
}

// Names returns the names of the recorded actions.
func (p *Player) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.actions))
	for _, a := range p.actions {
		names = append(names, a.Name)
	}

	return names
}

// ClearActions forgets the recorded actions.
func (p *Player) ClearActions() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.actions = nil
}

// SetDuration sets the media length. Zero means unknown.
func (p *Player) SetDuration(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.duration = d
}

// SetCurrentTime moves the playback position without recording an action.
func (p *Player) SetCurrentTime(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = d
}

// SetBufferedEnd sets the end of the buffered range.
func (p *Player) SetBufferedEnd(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffered = d
}

// SetLive marks the media as a live stream.
func (p *Player) SetLive(live, atLiveEdge bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.live = live
	p.atLiveEdge = live && atLiveEdge
}

// SetPlaying sets the playback state without recording an action.
func (p *Player) SetPlaying(playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playing = playing
}

// SetChapters replaces the chapter list.
func (p *Player) SetChapters(chs []omnislider.Chapter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.chapters = append([]omnislider.Chapter(nil), chs...)
}

// CurrentTime implements omnislider.MediaStateReporter.
func (p *Player) CurrentTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

// Duration implements omnislider.MediaStateReporter.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.duration
}

// BufferedEnd implements omnislider.MediaStateReporter.
func (p *Player) BufferedEnd() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.buffered
}

// IsLive implements omnislider.MediaStateReporter.
func (p *Player) IsLive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.live
}

// IsAtLiveEdge implements omnislider.MediaStateReporter.
func (p *Player) IsAtLiveEdge() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.atLiveEdge
}

// IsPlaying implements omnislider.MediaStateReporter.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.playing
}

// Chapters implements omnislider.MediaStateReporter.
func (p *Player) Chapters() []omnislider.Chapter {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]omnislider.Chapter(nil), p.chapters...)
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playing = true
	p.record(Action{Name: "play"})
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playing = false
	p.record(Action{Name: "pause"})
}

// Seeking records an intermediate scrub position.
func (p *Player) Seeking(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record(Action{Name: "seeking", Pos: pos})
}

// Seek moves the playback position to pos.
func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = pos
	if p.live {
		p.atLiveEdge = false
	}
	p.record(Action{Name: "seek", Pos: pos})
}

// SeekToLiveEdge moves a live stream to its live edge.
func (p *Player) SeekToLiveEdge() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live {
		p.atLiveEdge = true
		p.current = p.duration
	}
	p.record(Action{Name: "live-edge"})
}

// PauseControlsAutoHide implements omnislider.ControlsAutoHider.
func (p *Player) PauseControlsAutoHide() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record(Action{Name: "pause-auto-hide"})
}

// ResumeControlsAutoHide implements omnislider.ControlsAutoHider.
func (p *Player) ResumeControlsAutoHide() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record(Action{Name: "resume-auto-hide"})
}

// VolumeLevel implements omnislider.VolumeController.
func (p *Player) VolumeLevel() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.volume
}

// SetVolumeLevel implements omnislider.VolumeController.
func (p *Player) SetVolumeLevel(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = level
	p.record(Action{Name: "volume", Level: level})
}

// PlaybackRate implements omnislider.PlaybackRateController.
func (p *Player) PlaybackRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rate
}

// SetPlaybackRate implements omnislider.PlaybackRateController.
func (p *Player) SetPlaybackRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rate = rate
	p.record(Action{Name: "rate", Level: rate})
}

var _ omnislider.MediaPlayer = (*Player)(nil)
