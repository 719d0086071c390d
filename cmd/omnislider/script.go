package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericyan/omnislider/input"
)

// Script is a recorded input session.
type Script struct {
	// Media seeds the in-memory player used for dry runs.
	Media ScriptMedia `yaml:"media"`

	// Track and Surface are the seek slider track and the swipe surface in
	// client coordinates. Volume and Speed default to the seek track.
	Track   ScriptRect `yaml:"track"`
	Surface ScriptRect `yaml:"surface"`
	Volume  ScriptRect `yaml:"volume"`
	Speed   ScriptRect `yaml:"speed"`

	Events []ScriptEvent `yaml:"events"`
}

type ScriptMedia struct {
	Duration time.Duration `yaml:"duration"`
	Current  time.Duration `yaml:"current"`
	Buffered time.Duration `yaml:"buffered"`
	Playing  bool          `yaml:"playing"`
	Live     bool          `yaml:"live"`

	// Volume (0..1) and Rate keep the player defaults when zero.
	Volume float64 `yaml:"volume"`
	Rate   float64 `yaml:"rate"`
}

type ScriptRect struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Rect converts r into client coordinates.
func (r ScriptRect) Rect() input.Rect {
	return input.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

// ScriptEvent is one input event, At after the replay starts.
type ScriptEvent struct {
	At     time.Duration `yaml:"at"`
	Type   input.Type    `yaml:"type"`
	Target string        `yaml:"target"`

	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button int     `yaml:"button"`
	Touch  int     `yaml:"touch"`

	Key   string `yaml:"key"`
	Shift bool   `yaml:"shift"`
	Meta  bool   `yaml:"meta"`
}

// Replay targets.
const (
	targetElement  = "element"
	targetDocument = "document"
	targetSurface  = "surface"
	targetVolume   = "volume"
	targetSpeed    = "speed"
)

var defaultTargets = map[input.Type]string{
	input.PointerEnter: targetElement,
	input.PointerLeave: targetElement,
	input.PointerDown:  targetElement,
	input.PointerMove:  targetDocument,
	input.PointerUp:    targetDocument,
	input.TouchStart:   targetSurface,
	input.TouchMove:    targetSurface,
	input.TouchEnd:     targetSurface,
	input.KeyDown:      targetElement,
	input.KeyUp:        targetElement,
	input.Focus:        targetElement,
	input.Blur:         targetElement,
}

var defaultTrack = ScriptRect{Width: 1000, Height: 10}

// LoadScript reads the script at path.
func LoadScript(path string) (*Script, error) {
	// #nosec G304 -- script paths are provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// ParseScript decodes and validates a script. Unknown fields are rejected.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{Track: defaultTrack}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty script")
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}

	if s.Track.Width <= 0 {
		return nil, errors.New("track width must be positive")
	}
	for _, r := range []*ScriptRect{&s.Surface, &s.Volume, &s.Speed} {
		if r.Width <= 0 {
			*r = s.Track
		}
	}

	var last time.Duration
	for i := range s.Events {
		ev := &s.Events[i]

		def, ok := defaultTargets[ev.Type]
		if !ok {
			return nil, fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
		if ev.Target == "" {
			ev.Target = def
		}
		switch ev.Target {
		case targetElement, targetDocument, targetSurface, targetVolume, targetSpeed:
		default:
			return nil, fmt.Errorf("event %d: unknown target %q", i, ev.Target)
		}

		if ev.At < last {
			return nil, fmt.Errorf("event %d: at %s is before the previous event", i, ev.At)
		}
		last = ev.At
	}

	return s, nil
}

// Event returns the input event e describes.
func (e ScriptEvent) Event() input.Event {
	switch e.Type {
	case input.TouchStart, input.TouchMove, input.TouchEnd:
		ev := &input.TouchEvent{Kind: e.Type}
		if e.Type != input.TouchEnd {
			ev.Touches = []input.TouchPoint{{ID: e.Touch, ClientX: e.X, ClientY: e.Y}}
		}
		return ev
	case input.KeyDown, input.KeyUp:
		return &input.KeyEvent{Kind: e.Type, Key: e.Key, Shift: e.Shift, Meta: e.Meta}
	case input.Focus, input.Blur:
		return &input.FocusEvent{Kind: e.Type}
	}

	return &input.PointerEvent{
		Kind:    e.Type,
		Pointer: input.Mouse,
		Button:  e.Button,
		ClientX: e.X,
		ClientY: e.Y,
	}
}
