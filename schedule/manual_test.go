package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualAdvanceOrder(t *testing.T) {
	m := NewManual()

	var got []string
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.PendingTimers())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.PendingTimers())
}

func TestManualNestedTimers(t *testing.T) {
	m := NewManual()
	start := m.Now()

	var fired []time.Duration
	m.AfterFunc(5*time.Millisecond, func() {
		fired = append(fired, m.Now().Sub(start))
		m.AfterFunc(5*time.Millisecond, func() {
			fired = append(fired, m.Now().Sub(start))
		})
	})

	m.Advance(12 * time.Millisecond)
	assert.Equal(t, []time.Duration{5 * time.Millisecond, 10 * time.Millisecond}, fired)
	assert.Equal(t, 12*time.Millisecond, m.Now().Sub(start))
}

func TestManualStop(t *testing.T) {
	m := NewManual()

	fired := false
	timer := m.AfterFunc(time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Advance(time.Second)
	assert.False(t, fired)
}

func TestManualFrame(t *testing.T) {
	m := NewManual()

	n := 0
	m.RequestFrame(func() { n++ })
	m.RequestFrame(func() {
		n++
		m.RequestFrame(func() { n += 10 })
	})

	assert.Equal(t, 2, m.Frame())
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, m.PendingFrames())

	assert.Equal(t, 1, m.Frame())
	assert.Equal(t, 12, n)
}
