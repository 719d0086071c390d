package slider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider/input"
)

func newSwipeFixture(t *testing.T, value float64) (*fixture, *input.Target) {
	t.Helper()

	surface := input.NewTarget()
	canvas := func() input.Rect { return input.Rect{Width: 400, Height: 300} }
	f := newFixture(t, []CoreOption{WithValue(value)}, WithSwipeSurface(surface, canvas))

	return f, surface
}

func touch(kind input.Type, x, y float64) *input.TouchEvent {
	return &input.TouchEvent{Kind: kind, Touches: []input.TouchPoint{{ID: 7, ClientX: x, ClientY: y}}}
}

func TestSwipeActivatesDrag(t *testing.T) {
	f, surface := newSwipeFixture(t, 40)

	surface.Dispatch(touch(input.TouchStart, 100, 100))
	surface.Dispatch(touch(input.TouchMove, 110, 101))
	assert.False(t, f.core.Dragging.Get(), "below the activation distance")

	surface.Dispatch(touch(input.TouchMove, 140, 102))
	require.True(t, f.core.Dragging.Get())
	assert.Equal(t, SwipeDrag, f.router.Session().Source)
	assert.Equal(t, 7, f.router.Session().TouchID)
	assert.Equal(t, 50.0, f.core.Value.Get(), "start value offset by 40/400 of the range")

	surface.Dispatch(touch(input.TouchMove, 200, 130))
	assert.Equal(t, 65.0, f.core.Value.Get(), "vertical drift no longer matters once active")

	surface.Dispatch(&input.TouchEvent{Kind: input.TouchEnd})
	assert.False(t, f.core.Dragging.Get())

	ends := f.rec.only(DragEnd)
	require.Len(t, ends, 1)
	assert.Equal(t, 65.0, ends[0].Value)
	assert.Equal(t, DragStart, f.rec.events[0].Kind)
}

func TestSwipeVerticalScrollIsIgnored(t *testing.T) {
	f, surface := newSwipeFixture(t, 40)

	surface.Dispatch(touch(input.TouchStart, 100, 100))
	surface.Dispatch(touch(input.TouchMove, 102, 108))
	surface.Dispatch(touch(input.TouchMove, 200, 108))
	surface.Dispatch(touch(input.TouchMove, 300, 100))
	surface.Dispatch(&input.TouchEvent{Kind: input.TouchEnd})

	assert.False(t, f.core.Dragging.Get())
	assert.Empty(t, f.rec.events)
	assert.Equal(t, 40.0, f.core.Value.Get())
}

func TestSwipeBackwards(t *testing.T) {
	f, surface := newSwipeFixture(t, 40)

	surface.Dispatch(touch(input.TouchStart, 300, 100))
	surface.Dispatch(touch(input.TouchMove, 60, 100))
	assert.Equal(t, 0.0, f.core.Value.Get(), "clamped at min")

	surface.Dispatch(&input.TouchEvent{Kind: input.TouchEnd})
	assert.False(t, f.core.Dragging.Get())
}

func TestSwipeDisabled(t *testing.T) {
	f, surface := newSwipeFixture(t, 40)
	f.delegate.IsDisabled = true

	surface.Dispatch(touch(input.TouchStart, 100, 100))
	surface.Dispatch(touch(input.TouchMove, 200, 100))

	assert.False(t, f.core.Dragging.Get())
}

func TestSwipeListenersFollowRefresh(t *testing.T) {
	f, surface := newSwipeFixture(t, 40)
	assert.Equal(t, 3, surface.Len())

	f.delegate.IsDisabled = true
	f.router.Refresh()
	assert.Equal(t, 0, surface.Len(), "a disabled slider does not listen for swipes")

	f.delegate.IsDisabled = false
	f.router.Refresh()
	assert.Equal(t, 3, surface.Len())

	surface.Dispatch(touch(input.TouchStart, 100, 100))
	surface.Dispatch(touch(input.TouchMove, 140, 100))
	require.True(t, f.core.Dragging.Get())

	f.core.Hidden.Set(true)
	assert.Equal(t, 0, surface.Len())
	assert.False(t, f.core.Dragging.Get(), "hiding ends the swipe drag")
	assert.Len(t, f.rec.only(DragEnd), 1)

	f.router.Close()
	f.core.Hidden.Set(false)
	assert.Equal(t, 0, surface.Len(), "a closed router stays detached")
}
