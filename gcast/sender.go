// Package gcast controls media playing on Google Cast devices.
package gcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/gcast/internal/castv2"
)

// liveEdgeTolerance is how far behind the end of the seekable range a
// live stream still counts as at the live edge.
const liveEdgeTolerance = 2 * time.Second

// ErrReceiverNotReady is returned when the receiver runs no media
// application.
var ErrReceiverNotReady = errors.New("receiver not ready")

// channel is the part of castv2.Channel the sender uses.
type channel interface {
	Request(ctx context.Context, srcID, destID, namespace string, req castv2.Request) (*castv2.Msg, error)
	Send(srcID, destID, namespace string, req castv2.Request) error
	Subscribe(fn func(*castv2.Msg))
	Close() error
}

// A Sender is a sender app instance that controls media playback on the
// receiver. The receiver pushes status updates; the playback position
// is extrapolated between them.
type Sender struct {
	id  string
	ch  channel
	log zerolog.Logger
	now func() time.Time

	mu       sync.Mutex
	app      *ReceiverApplication
	vol      *ReceiverVolume
	session  *MediaSession
	updated  time.Time
	chapters []omnislider.Chapter
}

// Option configures a Sender.
type Option func(*Sender)

// WithLogger sets the logger protocol failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sender) { s.log = l }
}

// Connect opens a cast channel to the device at addr and attaches to the
// media session of its running application.
func Connect(ctx context.Context, addr string, opts ...Option) (*Sender, error) {
	s := newSender(nil, opts...)

	ch, err := castv2.Dial(ctx, addr, castv2.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	s.ch = ch

	if err := s.start(ctx); err != nil {
		ch.Close()
		return nil, err
	}

	return s, nil
}

func newSender(ch channel, opts ...Option) *Sender {
	s := &Sender{
		id:  "sender-" + uuid.NewString(),
		ch:  ch,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Sender) start(ctx context.Context) error {
	s.ch.Subscribe(s.handle)

	msg, err := s.ch.Request(ctx, castv2.PlatformSenderID, castv2.PlatformReceiverID,
		castv2.NamespaceReceiver, castv2.NewRequest(castv2.TypeGetStatus))
	if err != nil {
		return fmt.Errorf("receiver status: %w", err)
	}
	if err := s.updateReceiverStatus(msg); err != nil {
		return err
	}

	s.mu.Lock()
	app := s.app
	s.mu.Unlock()
	if app == nil || app.IsIdleScreen {
		return fmt.Errorf("no media application: %w", ErrReceiverNotReady)
	}

	msg, err = s.ch.Request(ctx, s.id, app.destination(),
		castv2.NamespaceMedia, castv2.NewRequest(castv2.TypeGetStatus))
	if err != nil {
		return fmt.Errorf("media status: %w", err)
	}
	if err := s.updateMediaStatus(msg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		s.log.Warn().Str("app", app.Name).Msg("receiver has no media loaded")
	}

	return nil
}

func (s *Sender) handle(msg *castv2.Msg) {
	var h castv2.Header
	if err := json.Unmarshal([]byte(msg.Payload), &h); err != nil {
		return
	}

	var err error
	switch h.Type {
	case castv2.TypeReceiverStatus:
		err = s.updateReceiverStatus(msg)
	case castv2.TypeMediaStatus:
		err = s.updateMediaStatus(msg)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("type", h.Type).Msg("bad status update")
	}
}

func (s *Sender) updateReceiverStatus(msg *castv2.Msg) error {
	rs := new(ReceiverStatus)
	if err := json.Unmarshal([]byte(msg.Payload), rs); err != nil {
		return fmt.Errorf("decode receiver status: %w", err)
	}

	var app *ReceiverApplication
	if apps := rs.Status.Applications; len(apps) > 0 {
		app = apps[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if app == nil || s.app == nil || app.SessionID != s.app.SessionID {
		s.session = nil
	}
	s.app = app
	if rs.Status.Volume != nil {
		s.vol = rs.Status.Volume
	}

	return nil
}

func (s *Sender) updateMediaStatus(msg *castv2.Msg) error {
	ms := new(MediaStatus)
	if err := json.Unmarshal([]byte(msg.Payload), ms); err != nil {
		return fmt.Errorf("decode media status: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ms.Status) == 0 {
		s.session = nil
		return nil
	}

	s.updated = s.now()
	for _, sess := range ms.Status {
		// The media element is only sent when it has changed.
		if sess.Media == nil && s.session != nil && s.session.MediaSessionID == sess.MediaSessionID {
			sess.Media = s.session.Media
		}

		s.session = sess
	}

	return nil
}

// position returns the extrapolated playback position in seconds. Callers
// hold mu.
func (s *Sender) position() float64 {
	sess := s.session
	if sess == nil {
		return 0
	}

	pos := sess.CurrentTime
	if sess.PlayerState == StatePlaying {
		rate := sess.PlaybackRate
		if rate <= 0 {
			rate = 1
		}
		pos += s.now().Sub(s.updated).Seconds() * rate
	}
	if d := s.duration(); d > 0 && !s.live() && pos > d {
		pos = d
	}

	return pos
}

// duration returns the media duration in seconds. Callers hold mu.
func (s *Sender) duration() float64 {
	sess := s.session
	if sess == nil {
		return 0
	}
	if sess.Media != nil && sess.Media.Duration > 0 {
		return sess.Media.Duration
	}
	if r := sess.LiveSeekableRange; r != nil && s.live() {
		return r.End
	}

	return 0
}

func (s *Sender) live() bool {
	return s.session != nil && s.session.Media != nil && s.session.Media.StreamType == StreamTypeLive
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// Title returns the title of the current media.
func (s *Sender) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.Media == nil {
		return ""
	}

	return s.session.Media.Metadata.Title()
}

// SetChapters sets the chapters reported for the current media.
func (s *Sender) SetChapters(chs []omnislider.Chapter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chapters = append([]omnislider.Chapter(nil), chs...)
}

// Chapters returns the chapters set with SetChapters.
func (s *Sender) Chapters() []omnislider.Chapter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]omnislider.Chapter(nil), s.chapters...)
}

// CurrentTime returns the current position of media playback.
func (s *Sender) CurrentTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return seconds(s.position())
}

// Duration returns the duration of the media. For live streams this is
// the end of the seekable range.
func (s *Sender) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return seconds(s.duration())
}

// BufferedEnd returns the duration of the media; receivers do not report
// buffering progress.
func (s *Sender) BufferedEnd() time.Duration {
	return s.Duration()
}

// IsLive returns true if the media is a live stream.
func (s *Sender) IsLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.live()
}

// IsAtLiveEdge returns true if playback of a live stream is at the end of
// its seekable range.
func (s *Sender) IsAtLiveEdge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live() || s.session.LiveSeekableRange == nil {
		return false
	}

	return seconds(s.session.LiveSeekableRange.End-s.position()) <= liveEdgeTolerance
}

// IsPlaying returns true if the receiver is actively playing content.
func (s *Sender) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session != nil && s.session.PlayerState == StatePlaying
}

// media sends a request for the current media session built by newReq.
func (s *Sender) media(reqType string, newReq func(mediaRequest) castv2.Request) {
	s.mu.Lock()
	app, sess := s.app, s.session
	s.mu.Unlock()

	if app == nil || sess == nil {
		s.log.Warn().Str("type", reqType).Msg("no media session")
		return
	}

	base := mediaRequest{castv2.Header{Type: reqType}, sess.MediaSessionID}
	if err := s.ch.Send(s.id, app.destination(), castv2.NamespaceMedia, newReq(base)); err != nil {
		s.log.Warn().Err(err).Str("type", reqType).Msg("cast request failed")
	}
}

// Play begins playback from the current position.
func (s *Sender) Play() {
	s.media(castv2.TypePlay, func(r mediaRequest) castv2.Request { return &r })
}

// Pause pauses playback of the current content.
func (s *Sender) Pause() {
	s.media(castv2.TypePause, func(r mediaRequest) castv2.Request { return &r })
}

// Seeking is ignored: a receiver rebuffers on every seek, so only the
// committed position is sent.
func (s *Sender) Seeking(pos time.Duration) {
	s.log.Debug().Dur("pos", pos).Msg("intermediate seek ignored")
}

// Seek sets the current playback position to pos.
func (s *Sender) Seek(pos time.Duration) {
	s.seek(pos.Seconds())
}

func (s *Sender) seek(pos float64) {
	s.media(castv2.TypeSeek, func(r mediaRequest) castv2.Request {
		return &seekRequest{r, pos}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.CurrentTime = pos
		s.updated = s.now()
	}
}

// SeekToLiveEdge seeks to the end of the seekable range of a live
// stream.
func (s *Sender) SeekToLiveEdge() {
	s.mu.Lock()
	var end float64
	ok := s.live() && s.session.LiveSeekableRange != nil
	if ok {
		end = s.session.LiveSeekableRange.End
	}
	s.mu.Unlock()

	if !ok {
		s.log.Debug().Msg("live edge seek ignored")
		return
	}
	s.seek(end)
}

// PauseControlsAutoHide does nothing; the receiver shows its own
// controls.
func (s *Sender) PauseControlsAutoHide() {}

// ResumeControlsAutoHide does nothing.
func (s *Sender) ResumeControlsAutoHide() {}

// VolumeLevel returns the receiver volume in [0, 1].
func (s *Sender) VolumeLevel() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vol == nil {
		return 1
	}

	return s.vol.Level
}

// SetVolumeLevel sets the receiver volume.
func (s *Sender) SetVolumeLevel(level float64) {
	req := &volumeRequest{Header: castv2.Header{Type: castv2.TypeSetVolume}}
	req.Volume.Level = level

	err := s.ch.Send(castv2.PlatformSenderID, castv2.PlatformReceiverID, castv2.NamespaceReceiver, req)
	if err != nil {
		s.log.Warn().Err(err).Str("type", castv2.TypeSetVolume).Msg("cast request failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vol == nil {
		s.vol = new(ReceiverVolume)
	}
	s.vol.Level = level
}

// PlaybackRate returns the ratio of speed that media is played at.
func (s *Sender) PlaybackRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.PlaybackRate <= 0 {
		return 1
	}

	return s.session.PlaybackRate
}

// SetPlaybackRate sets the playback speed.
func (s *Sender) SetPlaybackRate(rate float64) {
	s.media(castv2.TypeSetPlaybackRate, func(r mediaRequest) castv2.Request {
		return &playbackRateRequest{r, rate}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.CurrentTime = s.position()
		s.updated = s.now()
		s.session.PlaybackRate = rate
	}
}

// Close closes the cast channel.
func (s *Sender) Close() error {
	return s.ch.Close()
}

var _ omnislider.MediaPlayer = (*Sender)(nil)
