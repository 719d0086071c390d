package mpris

import (
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/ericyan/omnislider"
)

// Player represents a MPRIS player.
//
// MPRIS exposes neither buffering nor live streams, so the buffered range
// always spans the whole media and live-edge requests are ignored.
type Player struct {
	dest string
	bo   busObject
	log  zerolog.Logger

	mu       sync.Mutex
	chapters []omnislider.Chapter
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger D-Bus failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Player) { p.log = l }
}

// NewPlayer returns a new player for the bus name dest.
func NewPlayer(dest string, opts ...Option) (*Player, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	return newPlayer(dest, conn.Object(dest, ObjectPath), opts...), nil
}

func newPlayer(dest string, bo busObject, opts ...Option) *Player {
	p := &Player{dest: dest, bo: bo, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the name of the player instance.
func (p *Player) Name() string {
	return p.dest
}

// SetChapters sets the chapters reported for the current media, such as
// the ones read from the file being played.
func (p *Player) SetChapters(chs []omnislider.Chapter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.chapters = append([]omnislider.Chapter(nil), chs...)
}

// call invokes a method of the Player interface, logging failures.
func (p *Player) call(method string, args ...interface{}) error {
	call := p.bo.Call(playerInterface+"."+method, 0, args...)
	if call.Err != nil {
		p.log.Warn().Err(call.Err).Str("player", p.dest).Str("method", method).Msg("mpris call failed")
	}

	return call.Err
}

func (p *Player) property(name string) (dbus.Variant, bool) {
	v, err := p.bo.GetProperty(playerInterface + "." + name)
	if err != nil {
		p.log.Warn().Err(err).Str("player", p.dest).Str("property", name).Msg("mpris property unavailable")
		return dbus.Variant{}, false
	}

	return v, true
}

func (p *Player) setProperty(name string, value interface{}) {
	call := p.bo.Call(propertiesSet, 0, playerInterface, name, dbus.MakeVariant(value))
	if call.Err != nil {
		p.log.Warn().Err(call.Err).Str("player", p.dest).Str("property", name).Msg("mpris property not set")
	}
}

func (p *Player) float(name string, fallback float64) float64 {
	v, ok := p.property(name)
	if !ok {
		return fallback
	}

	f, ok := v.Value().(float64)
	if !ok {
		return fallback
	}

	return f
}

// Metadata returns the MPRIS metadata of the current media.
func (p *Player) Metadata() MediaMetadata {
	v, ok := p.property("Metadata")
	if !ok {
		return nil
	}

	m, _ := v.Value().(map[string]dbus.Variant)
	return MediaMetadata(m)
}

// PlaybackStatus returns the current playback status.
func (p *Player) PlaybackStatus() string {
	v, ok := p.property("PlaybackStatus")
	if !ok {
		return "UNKNOWN"
	}

	s, _ := v.Value().(string)
	return s
}

// CurrentTime returns the current position of media playback.
func (p *Player) CurrentTime() time.Duration {
	v, ok := p.property("Position")
	if !ok {
		return 0
	}

	pos, _ := v.Value().(int64)
	return time.Duration(pos) * time.Microsecond
}

// Duration returns the duration of current loaded media.
func (p *Player) Duration() time.Duration {
	return p.Metadata().MediaDuration()
}

// BufferedEnd returns the duration of the media.
func (p *Player) BufferedEnd() time.Duration {
	return p.Duration()
}

// IsLive always returns false.
func (p *Player) IsLive() bool {
	return false
}

// IsAtLiveEdge always returns false.
func (p *Player) IsAtLiveEdge() bool {
	return false
}

// IsPlaying returns true if the player is actively playing content.
func (p *Player) IsPlaying() bool {
	return p.PlaybackStatus() == "Playing"
}

// Chapters returns the chapters set with SetChapters.
func (p *Player) Chapters() []omnislider.Chapter {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]omnislider.Chapter(nil), p.chapters...)
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.call("Play")
}

// Pause pauses playback of the current content.
func (p *Player) Pause() {
	p.call("Pause")
}

// Seeking moves the playback position while the user scrubs.
func (p *Player) Seeking(pos time.Duration) {
	p.setPosition(pos)
}

// Seek sets the current playback position to pos.
func (p *Player) Seek(pos time.Duration) {
	p.setPosition(pos)
}

func (p *Player) setPosition(pos time.Duration) {
	p.call("SetPosition", p.Metadata().TrackID(), pos.Microseconds())
}

// SeekToLiveEdge is not supported by MPRIS.
func (p *Player) SeekToLiveEdge() {
	p.log.Debug().Str("player", p.dest).Msg("live edge seek ignored")
}

// PauseControlsAutoHide does nothing; MPRIS players have no overlay
// controls to keep visible.
func (p *Player) PauseControlsAutoHide() {}

// ResumeControlsAutoHide does nothing.
func (p *Player) ResumeControlsAutoHide() {}

// VolumeLevel returns the volume in [0, 1].
func (p *Player) VolumeLevel() float64 {
	return p.float("Volume", 1)
}

// SetVolumeLevel sets the volume.
func (p *Player) SetVolumeLevel(level float64) {
	p.setProperty("Volume", level)
}

// PlaybackRate returns the ratio of speed that media is played at.
func (p *Player) PlaybackRate() float64 {
	return p.float("Rate", 1)
}

// SetPlaybackRate sets the playback speed.
func (p *Player) SetPlaybackRate(rate float64) {
	p.setProperty("Rate", rate)
}

var _ omnislider.MediaPlayer = (*Player)(nil)
