// Package config loads the omnislider configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericyan/omnislider/mediaslider"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/slider"
	"github.com/ericyan/omnislider/timeslider"
)

// ErrInvalid classifies configuration values that fail validation.
var ErrInvalid = errors.New("invalid config")

// Config is the root of the configuration file.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Loop    LoopConfig    `yaml:"loop"`
	Pointer PointerConfig `yaml:"pointer"`
	Time    TimeConfig    `yaml:"time"`
	Volume  VolumeConfig  `yaml:"volume"`
	Speed   SpeedConfig   `yaml:"speed"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type LoopConfig struct {
	FrameInterval time.Duration `yaml:"frameInterval"`
}

type PointerConfig struct {
	MoveInterval time.Duration `yaml:"moveInterval"`
}

// TimeConfig configures the seek slider.
type TimeConfig struct {
	Step                   time.Duration `yaml:"step"`
	KeyStep                time.Duration `yaml:"keyStep"`
	ShiftKeyMultiplier     float64       `yaml:"shiftKeyMultiplier"`
	PauseWhileDragging     bool          `yaml:"pauseWhileDragging"`
	SeekingRequestThrottle time.Duration `yaml:"seekingRequestThrottle"`
	SwipeGesture           bool          `yaml:"swipeGesture"`
}

// Options returns the seek slider options described by c.
func (c TimeConfig) Options() timeslider.Options {
	return timeslider.Options{
		Step:                   c.Step,
		KeyStep:                c.KeyStep,
		ShiftKeyMultiplier:     c.ShiftKeyMultiplier,
		PauseWhileDragging:     c.PauseWhileDragging,
		SeekingRequestThrottle: c.SeekingRequestThrottle,
	}
}

type VolumeConfig struct {
	KeyStep            float64 `yaml:"keyStep"`
	ShiftKeyMultiplier float64 `yaml:"shiftKeyMultiplier"`
}

// Options returns the volume slider options described by c.
func (c VolumeConfig) Options() []mediaslider.Option {
	return []mediaslider.Option{mediaslider.WithKeyStep(c.KeyStep, c.ShiftKeyMultiplier)}
}

type SpeedConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Options returns the speed slider options described by c. Arrow keys
// move one step.
func (c SpeedConfig) Options() []mediaslider.Option {
	return []mediaslider.Option{
		mediaslider.WithRange(c.Min, c.Max),
		mediaslider.WithStep(c.Step),
		mediaslider.WithKeyStep(c.Step, 2),
	}
}

type MetricsConfig struct {
	// Listen is the address /metrics is served on. Empty disables it.
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	opts := timeslider.DefaultOptions()

	return Config{
		Log:     LogConfig{Level: "info"},
		Loop:    LoopConfig{FrameInterval: schedule.DefaultFrameInterval},
		Pointer: PointerConfig{MoveInterval: slider.DefaultMoveInterval},
		Time: TimeConfig{
			Step:                   opts.Step,
			KeyStep:                opts.KeyStep,
			ShiftKeyMultiplier:     opts.ShiftKeyMultiplier,
			PauseWhileDragging:     opts.PauseWhileDragging,
			SeekingRequestThrottle: opts.SeekingRequestThrottle,
			SwipeGesture:           true,
		},
		Volume: VolumeConfig{KeyStep: 5, ShiftKeyMultiplier: 2},
		Speed:  SpeedConfig{Min: 0.25, Max: 2, Step: 0.25},
	}
}

// Load reads the configuration file at path. Settings missing from the
// file keep their defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a YAML document over Default and validates the result.
// Unknown fields and trailing documents are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	positive := []struct {
		name string
		ok   bool
	}{
		{"loop.frameInterval", c.Loop.FrameInterval > 0},
		{"pointer.moveInterval", c.Pointer.MoveInterval > 0},
		{"time.step", c.Time.Step > 0},
		{"time.keyStep", c.Time.KeyStep > 0},
		{"time.shiftKeyMultiplier", c.Time.ShiftKeyMultiplier > 0},
		{"time.seekingRequestThrottle", c.Time.SeekingRequestThrottle > 0},
		{"volume.keyStep", c.Volume.KeyStep > 0},
		{"volume.shiftKeyMultiplier", c.Volume.ShiftKeyMultiplier > 0},
		{"speed.step", c.Speed.Step > 0},
	}
	for _, p := range positive {
		if !p.ok {
			return fmt.Errorf("%w: %s must be positive", ErrInvalid, p.name)
		}
	}

	if c.Speed.Min >= c.Speed.Max {
		return fmt.Errorf("%w: speed.min must be below speed.max", ErrInvalid)
	}
	if c.Speed.Min <= 0 {
		return fmt.Errorf("%w: speed.min must be positive", ErrInvalid)
	}

	return nil
}
