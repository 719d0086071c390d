package mpris

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider"
)

type fakeCall struct {
	method string
	args   []interface{}
}

// fakeBus stands in for a player object exported on the session bus.
type fakeBus struct {
	props map[string]dbus.Variant
	body  []interface{}
	err   error
	calls []fakeCall
}

func (f *fakeBus) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, fakeCall{method, args})

	return &dbus.Call{Method: method, Args: args, Body: f.body, Err: f.err}
}

func (f *fakeBus) GetProperty(p string) (dbus.Variant, error) {
	v, ok := f.props[p]
	if !ok {
		return dbus.Variant{}, errors.New("no such property")
	}

	return v, nil
}

func newFakePlayer() *fakeBus {
	return &fakeBus{props: map[string]dbus.Variant{
		playerInterface + ".PlaybackStatus": dbus.MakeVariant("Playing"),
		playerInterface + ".Position":       dbus.MakeVariant(int64(90_000_000)),
		playerInterface + ".Volume":         dbus.MakeVariant(0.5),
		playerInterface + ".Metadata": dbus.MakeVariant(map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/mpris/MediaPlayer2/Track/7")),
			"mpris:length":  dbus.MakeVariant(int64(600_000_000)),
			"xesam:title":   dbus.MakeVariant("Episode"),
		}),
	}}
}

func TestPlayerState(t *testing.T) {
	p := newPlayer("org.mpris.MediaPlayer2.vlc", newFakePlayer())

	assert.Equal(t, 90*time.Second, p.CurrentTime())
	assert.Equal(t, 10*time.Minute, p.Duration())
	assert.Equal(t, p.Duration(), p.BufferedEnd())
	assert.True(t, p.IsPlaying())
	assert.False(t, p.IsLive())
	assert.Equal(t, 0.5, p.VolumeLevel())
	assert.Equal(t, 1.0, p.PlaybackRate(), "missing property falls back")
	assert.Equal(t, "Episode", p.Metadata().Title())

	p.SetChapters([]omnislider.Chapter{{Title: "a", EndTime: time.Minute}})
	assert.Len(t, p.Chapters(), 1)
}

func TestPlayerSeek(t *testing.T) {
	bus := newFakePlayer()
	p := newPlayer("org.mpris.MediaPlayer2.vlc", bus)

	p.Seek(2 * time.Second)

	require.Len(t, bus.calls, 1)
	assert.Equal(t, playerInterface+".SetPosition", bus.calls[0].method)
	assert.Equal(t, []interface{}{dbus.ObjectPath("/org/mpris/MediaPlayer2/Track/7"), int64(2_000_000)}, bus.calls[0].args)
}

func TestPlayerSetVolume(t *testing.T) {
	bus := newFakePlayer()
	p := newPlayer("org.mpris.MediaPlayer2.vlc", bus)

	p.SetVolumeLevel(0.25)

	require.Len(t, bus.calls, 1)
	assert.Equal(t, propertiesSet, bus.calls[0].method)
	assert.Equal(t, []interface{}{playerInterface, "Volume", dbus.MakeVariant(0.25)}, bus.calls[0].args)
}

func TestPlayerLogsFailedCalls(t *testing.T) {
	var buf bytes.Buffer
	bus := newFakePlayer()
	bus.err = errors.New("org.freedesktop.DBus.Error.ServiceUnknown")
	p := newPlayer("org.mpris.MediaPlayer2.gone", bus, WithLogger(zerolog.New(&buf)))

	p.Play()

	assert.Contains(t, buf.String(), "mpris call failed")
	assert.Contains(t, buf.String(), `"method":"Play"`)
}

func TestMetadataWithoutTrack(t *testing.T) {
	var m MediaMetadata
	assert.Equal(t, noTrack, m.TrackID())
	assert.Equal(t, time.Duration(0), m.MediaDuration())
	assert.Equal(t, "", m.Title())
}

func TestDiscover(t *testing.T) {
	bus := &fakeBus{body: []interface{}{[]string{
		"org.freedesktop.DBus",
		"org.mpris.MediaPlayer2.vlc",
		"org.mpris.MediaPlayer2.mpv",
	}}}

	dests, err := discover(bus)
	require.NoError(t, err)
	assert.Equal(t, []string{"org.mpris.MediaPlayer2.mpv", "org.mpris.MediaPlayer2.vlc"}, dests)

	dest, err := Resolve(dests, "vlc")
	require.NoError(t, err)
	assert.Equal(t, "org.mpris.MediaPlayer2.vlc", dest)

	dest, err = Resolve(dests, "")
	require.NoError(t, err)
	assert.Equal(t, "org.mpris.MediaPlayer2.mpv", dest)

	_, err = Resolve(dests, "spotify")
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestDiscoverNoPlayer(t *testing.T) {
	_, err := discover(&fakeBus{body: []interface{}{[]string{"org.freedesktop.DBus"}}})
	assert.ErrorIs(t, err, ErrNoPlayer)

	_, err = discover(&fakeBus{err: errors.New("disconnected")})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPlayer)
}
