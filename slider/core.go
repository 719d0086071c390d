// Package slider implements the interaction engine behind range inputs:
// the numeric state of a slider (Core), the pointer/touch/keyboard state
// machine driving it (Router) and the frame-coalesced outputs consumed by
// presentation (Output).
package slider

import (
	"math"
	"strconv"
	"strings"
)

// Orientation is the axis a slider track runs along.
type Orientation int

// Orientations.
const (
	Horizontal Orientation = iota
	Vertical
)

// String returns the string representation of the orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}

	return "horizontal"
}

// maxPrecision bounds the decimal places used when rounding to the step
// grid, keeping v*10^n well inside float64 range.
const maxPrecision = 12

// State is the canonical state of one slider. Every field can be
// subscribed to.
type State struct {
	Min          Observable[float64]
	Max          Observable[float64]
	Value        Observable[float64]
	PointerValue Observable[float64]
	Step         Observable[float64]

	Dragging Observable[bool]
	Pointing Observable[bool]
	Focused  Observable[bool]
	Hidden   Observable[bool]
}

// Core owns the State of a slider and derives its fill and pointer rates.
type Core struct {
	State

	orientation Orientation
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithRange sets the bounds of the slider.
func WithRange(min, max float64) CoreOption {
	return func(c *Core) { c.SetMinMax(min, max) }
}

// WithStep sets the step grid of the slider.
func WithStep(step float64) CoreOption {
	return func(c *Core) { c.SetStep(step) }
}

// WithValue sets the initial value.
func WithValue(v float64) CoreOption {
	return func(c *Core) { c.SetValue(v) }
}

// WithOrientation sets the track orientation.
func WithOrientation(o Orientation) CoreOption {
	return func(c *Core) { c.orientation = o }
}

// NewCore returns a Core over [0, 100] with a step of 1, configured by
// opts in order.
func NewCore(opts ...CoreOption) *Core {
	c := &Core{}
	c.Max.Set(100)
	c.Step.Set(1)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Orientation returns the track orientation.
func (c *Core) Orientation() Orientation {
	return c.orientation
}

// SetValue clamps raw to the bounds, rounds it onto the step grid and
// stores it. It does nothing while a drag is in progress; the router owns
// the value until the drag ends.
func (c *Core) SetValue(raw float64) {
	if c.Dragging.Get() {
		return
	}
	c.setValue(raw)
}

func (c *Core) setValue(raw float64) bool {
	if math.IsNaN(raw) {
		return false
	}

	return c.Value.Set(c.Round(raw))
}

func (c *Core) setPointerValue(raw float64) bool {
	if math.IsNaN(raw) {
		return false
	}

	return c.PointerValue.Set(c.Clamp(raw))
}

// SetMinMax sets the bounds. Value and pointer value are re-clamped only
// if they fall outside the new bounds. Non-finite bounds are ignored and
// reversed bounds are swapped.
func (c *Core) SetMinMax(min, max float64) {
	if !isFinite(min) || !isFinite(max) {
		return
	}
	if min > max {
		min, max = max, min
	}

	c.Min.Set(min)
	c.Max.Set(max)

	if v := c.Value.Get(); v < min || v > max {
		c.Value.Set(c.Round(v))
	}
	if v := c.PointerValue.Get(); v < min || v > max {
		c.PointerValue.Set(c.Clamp(v))
	}
}

// SetStep sets the step grid. Steps that are not positive and finite are
// replaced by 1.
func (c *Core) SetStep(step float64) {
	c.Step.Set(sanitizeStep(step))
}

// Clamp limits v to the bounds.
func (c *Core) Clamp(v float64) float64 {
	return clamp(v, c.Min.Get(), c.Max.Get())
}

// Round clamps v and snaps it onto the step grid. The result is rounded to
// the number of decimal places of the step, so a step of 0.25 never yields
// floating-point noise. Round is idempotent.
func (c *Core) Round(v float64) float64 {
	min, max := c.Min.Get(), c.Max.Get()
	step := sanitizeStep(c.Step.Get())

	v = clamp(v, min, max)
	v = min + step*math.Round((v-min)/step)
	v = roundTo(v, precision(step, min))

	return clamp(v, min, max)
}

// ValueFromRate converts a track rate in [0, 1] into a value on the step
// grid. Rates outside [0, 1] are clamped.
func (c *Core) ValueFromRate(rate float64) float64 {
	min, max := c.Min.Get(), c.Max.Get()
	step := sanitizeStep(c.Step.Get())

	if math.IsNaN(rate) {
		rate = 0
	}
	v := min + step*math.Round((max-min)*clamp(rate, 0, 1)/step)
	v = roundTo(v, precision(step, min))

	return clamp(v, min, max)
}

// FillRate returns the proportion of the range covered by the value.
func (c *Core) FillRate() float64 {
	return c.rate(c.Value.Get())
}

// PointerRate returns the proportion of the range covered by the pointer
// value.
func (c *Core) PointerRate() float64 {
	return c.rate(c.PointerValue.Get())
}

// FillPercent returns FillRate scaled to [0, 100].
func (c *Core) FillPercent() float64 {
	return c.FillRate() * 100
}

// PointerPercent returns PointerRate scaled to [0, 100].
func (c *Core) PointerPercent() float64 {
	return c.PointerRate() * 100
}

// Active reports whether the user is interacting with the slider.
func (c *Core) Active() bool {
	return c.Dragging.Get() || c.Focused.Get() || c.Pointing.Get()
}

func (c *Core) rate(v float64) float64 {
	min, max := c.Min.Get(), c.Max.Get()

	r := (v - min) / (max - min)
	if !isFinite(r) {
		return 0
	}

	return clamp(r, 0, 1)
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sanitizeStep(step float64) float64 {
	if !isFinite(step) || step <= 0 {
		return 1
	}

	return step
}

// decimalPlaces returns the number of digits after the decimal point in
// the shortest representation of v.
func decimalPlaces(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}

	return len(s) - i - 1
}

func precision(step, min float64) int {
	p := decimalPlaces(step)
	if q := decimalPlaces(min); q > p {
		p = q
	}
	if p > maxPrecision {
		p = maxPrecision
	}

	return p
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)

	return math.Round(v*p) / p
}
