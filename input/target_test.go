package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetDispatch(t *testing.T) {
	target := NewTarget()

	var got []string
	target.Listen(PointerDown, func(Event) { got = append(got, "a") })
	removeB := target.Listen(PointerDown, func(Event) { got = append(got, "b") })
	target.Listen(PointerUp, func(Event) { got = append(got, "up") })

	target.Dispatch(&PointerEvent{Kind: PointerDown})
	assert.Equal(t, []string{"a", "b"}, got)

	removeB()
	removeB()
	got = nil
	target.Dispatch(&PointerEvent{Kind: PointerDown})
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, target.Listeners(PointerDown))
	assert.Equal(t, 2, target.Len())
}

func TestTargetRemoveDuringDispatch(t *testing.T) {
	target := NewTarget()

	var calls int
	var removeSecond func()
	target.Listen(KeyDown, func(Event) {
		calls++
		removeSecond()
	})
	removeSecond = target.Listen(KeyDown, func(Event) { calls += 10 })

	target.Dispatch(&KeyEvent{Kind: KeyDown, Key: "Home"})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, target.Listeners(KeyDown))
}

func TestTargetEmptyTypeIsDeleted(t *testing.T) {
	target := NewTarget()

	remove := target.Listen(Focus, func(Event) {})
	remove()

	assert.Equal(t, 0, target.Len())
	assert.Equal(t, 0, target.Listeners(Focus))
}

func TestRect(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Width: 100, Height: 5}

	assert.Equal(t, 110.0, r.Right())
	assert.Equal(t, 25.0, r.Bottom())
}
