package mediaslider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/internal/memplayer"
	"github.com/ericyan/omnislider/schedule"
)

var track = input.Rect{Left: 0, Top: 0, Width: 100, Height: 10}

func bounds() input.Rect { return track }

func pointer(target *input.Target, kind input.Type, x float64) {
	target.Dispatch(&input.PointerEvent{Kind: kind, Pointer: input.Mouse, ClientX: x, ClientY: 5})
}

func levels(p *memplayer.Player, name string) []float64 {
	var out []float64
	for _, a := range p.Actions() {
		if a.Name == name {
			out = append(out, a.Level)
		}
	}

	return out
}

func TestVolumeFollowsPlayer(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	player.SetVolumeLevel(0.4)
	player.ClearActions()

	v := NewVolume(clock, player, input.NewTarget(), bounds)
	assert.Equal(t, 40.0, v.Core().Value.Get())
	assert.InDelta(t, 0.4, v.Value(), 1e-12)

	player.SetVolumeLevel(0.75)
	player.ClearActions()
	v.Sync()
	assert.Equal(t, 75.0, v.Core().Value.Get())
	assert.Empty(t, player.Actions(), "following the player does not write back")
}

func TestVolumeDragIsThrottledAndFlushed(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	element, document := input.NewTarget(), input.NewTarget()

	v := NewVolume(clock, player, element, bounds, WithDocument(document))
	player.ClearActions()

	pointer(element, input.PointerDown, 20)
	pointer(document, input.PointerMove, 30)
	clock.Advance(20 * time.Millisecond)
	pointer(document, input.PointerMove, 50)
	assert.Equal(t, []float64{0.2}, levels(player, "volume"))

	pointer(document, input.PointerUp, 60)
	assert.Equal(t, []float64{0.2, 0.6}, levels(player, "volume"), "release flushes the latest value")
	assert.Equal(t, 0, clock.PendingTimers())

	v.Sync()
	assert.Equal(t, 60.0, v.Core().Value.Get())
}

func TestVolumeCloseMidDragDispatchesLastValue(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	element, document := input.NewTarget(), input.NewTarget()

	v := NewVolume(clock, player, element, bounds, WithDocument(document))
	player.ClearActions()

	pointer(element, input.PointerDown, 20)
	pointer(document, input.PointerMove, 45)
	require.Equal(t, []float64{0.2}, levels(player, "volume"))

	v.Close()
	assert.Equal(t, []float64{0.2, 0.45}, levels(player, "volume"))
	assert.Equal(t, 0, clock.PendingTimers())
	assert.Equal(t, 0, document.Len())
}

func TestVolumeKeys(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	element := input.NewTarget()

	player.SetVolumeLevel(0.5)
	player.ClearActions()
	NewVolume(clock, player, element, bounds)

	element.Dispatch(&input.KeyEvent{Kind: input.KeyDown, Key: "ArrowUp", Shift: true})
	assert.Equal(t, []float64{0.6}, levels(player, "volume"))

	element.Dispatch(&input.KeyEvent{Kind: input.KeyUp, Key: "ArrowUp"})
	clock.Advance(time.Second)
	element.Dispatch(&input.KeyEvent{Kind: input.KeyDown, Key: "Home"})
	assert.Equal(t, []float64{0.6, 0}, levels(player, "volume"))
}

func TestSpeedSnapsToQuarterSteps(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	element, document := input.NewTarget(), input.NewTarget()

	s := NewSpeed(clock, player, element, bounds, WithDocument(document))
	assert.Equal(t, 1.0, s.Core().Value.Get())

	// 40% of [0.25, 2] is 0.95, which snaps to 1.
	pointer(element, input.PointerDown, 40)
	pointer(document, input.PointerUp, 80)

	rates := levels(player, "rate")
	require.NotEmpty(t, rates)
	assert.Equal(t, 1.75, rates[len(rates)-1])
	assert.Equal(t, 1.75, player.PlaybackRate())
}

func TestSpeedDigitKeysIgnoreMin(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	element := input.NewTarget()

	s := NewSpeed(clock, player, element, bounds)
	player.ClearActions()

	// Digits jump to tenths of the span, not offset by min: "1" is 0.175,
	// clamped up to 0.25.
	element.Dispatch(&input.KeyEvent{Kind: input.KeyDown, Key: "1"})
	assert.Equal(t, 0.25, s.Core().Value.Get())
	assert.Equal(t, []float64{0.25}, levels(player, "rate"))

	element.Dispatch(&input.KeyEvent{Kind: input.KeyUp, Key: "1"})
	clock.Advance(time.Second)
	element.Dispatch(&input.KeyEvent{Kind: input.KeyDown, Key: "0"})
	assert.Equal(t, 0.25, s.Core().Value.Get())
}

func TestDisabledSliderIgnoresInput(t *testing.T) {
	clock := schedule.NewManual()
	player := memplayer.New()
	element := input.NewTarget()

	s := NewSpeed(clock, player, element, bounds, WithRange(0.5, 3), WithStep(0.5))
	s.SetDisabled(true)

	pointer(element, input.PointerDown, 90)
	element.Dispatch(&input.KeyEvent{Kind: input.KeyDown, Key: "End"})
	assert.Empty(t, player.Actions())

	s.Close()
	assert.Equal(t, 0, element.Len())
}
