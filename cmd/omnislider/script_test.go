package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider/input"
)

const dragScript = `
media:
  duration: 10m
  current: 1m
  playing: true
track:
  left: 0
  width: 1000
  height: 10
events:
  - {at: 0s, type: pointerenter, x: 100}
  - {at: 0s, type: pointerdown, x: 100}
  - {at: 5ms, type: pointermove, x: 300}
  - {at: 10ms, type: pointerup, x: 500}
  - {at: 15ms, type: keydown, key: ArrowRight, shift: true}
  - {at: 15ms, type: keyup, key: ArrowRight}
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(dragScript))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, s.Media.Duration)
	assert.True(t, s.Media.Playing)
	assert.Equal(t, s.Track, s.Surface, "surface defaults to the track")
	require.Len(t, s.Events, 6)

	assert.Equal(t, targetElement, s.Events[1].Target)
	assert.Equal(t, targetDocument, s.Events[2].Target)

	ev, ok := s.Events[3].Event().(*input.PointerEvent)
	require.True(t, ok)
	assert.Equal(t, input.PointerUp, ev.Kind)
	assert.Equal(t, 500.0, ev.ClientX)
	assert.True(t, ev.IsPrimary())

	key, ok := s.Events[4].Event().(*input.KeyEvent)
	require.True(t, ok)
	assert.Equal(t, "ArrowRight", key.Key)
	assert.True(t, key.Shift)
}

func TestParseScriptDefaults(t *testing.T) {
	s, err := ParseScript([]byte("events:\n  - {type: touchstart, x: 10, y: 20, touch: 3}\n"))
	require.NoError(t, err)

	assert.Equal(t, defaultTrack, s.Track)
	assert.Equal(t, targetSurface, s.Events[0].Target)

	te, ok := s.Events[0].Event().(*input.TouchEvent)
	require.True(t, ok)
	tp, ok := te.First()
	require.True(t, ok)
	assert.Equal(t, input.TouchPoint{ID: 3, ClientX: 10, ClientY: 20}, tp)
}

func TestParseScriptErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"unknown field": "speed: 2\n",
		"unknown type":  "events:\n  - {type: click}\n",
		"bad target":    "events:\n  - {type: pointerdown, target: window}\n",
		"out of order":  "events:\n  - {at: 10ms, type: pointerdown}\n  - {at: 5ms, type: pointerup}\n",
		"zero track":    "track: {width: 0}\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseSeekTarget(t *testing.T) {
	toPercent := func(d time.Duration) float64 { return d.Seconds() / 36 }

	p, err := parseSeekTarget("42.5%", toPercent)
	require.NoError(t, err)
	assert.Equal(t, 42.5, p)

	p, err = parseSeekTarget("0:30:00", toPercent)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p)

	for _, s := range []string{"150%", "x%", "soon"} {
		_, err := parseSeekTarget(s, toPercent)
		assert.Error(t, err, s)
	}
}
