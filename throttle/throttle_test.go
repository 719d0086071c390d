package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericyan/omnislider/schedule"
)

func record(got *[]int, v int) func() {
	return func() { *got = append(*got, v) }
}

func TestThrottleLeadingAndTrailing(t *testing.T) {
	clock := schedule.NewManual()
	th := New(clock, 20*time.Millisecond)

	var got []int
	th.Schedule(record(&got, 1))
	assert.Equal(t, []int{1}, got, "leading call runs immediately")

	clock.Advance(5 * time.Millisecond)
	th.Schedule(record(&got, 2))
	th.Schedule(record(&got, 3))
	assert.Equal(t, []int{1}, got)
	assert.True(t, th.Pending())

	clock.Advance(15 * time.Millisecond)
	assert.Equal(t, []int{1, 3}, got, "only the latest trailing call runs")
	assert.False(t, th.Pending())

	// The trailing call opened a new interval.
	th.Schedule(record(&got, 4))
	assert.Equal(t, []int{1, 3}, got)

	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, []int{1, 3, 4}, got)

	// Quiet period: the next call leads again.
	clock.Advance(20 * time.Millisecond)
	th.Schedule(record(&got, 5))
	assert.Equal(t, []int{1, 3, 4, 5}, got)
}

func TestThrottleCancel(t *testing.T) {
	clock := schedule.NewManual()
	th := New(clock, 100*time.Millisecond)

	var got []int
	th.Schedule(record(&got, 1))
	th.Schedule(record(&got, 2))
	th.Cancel()

	clock.Advance(time.Second)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, clock.PendingTimers())

	th.Schedule(record(&got, 3))
	assert.Equal(t, []int{1, 3}, got, "cancel resets the interval")
}

func TestThrottleFlush(t *testing.T) {
	clock := schedule.NewManual()
	th := New(clock, 100*time.Millisecond)

	var got []int
	assert.False(t, th.Flush())

	th.Schedule(record(&got, 1))
	assert.False(t, th.Flush(), "leading call already ran")

	th.Schedule(record(&got, 2))
	th.Schedule(record(&got, 3))
	assert.True(t, th.Flush())
	assert.Equal(t, []int{1, 3}, got)

	clock.Advance(time.Second)
	assert.Equal(t, []int{1, 3}, got)
}

func TestThrottleZeroInterval(t *testing.T) {
	th := New(schedule.NewManual(), 0)

	var got []int
	th.Schedule(record(&got, 1))
	th.Schedule(record(&got, 2))
	assert.Equal(t, []int{1, 2}, got)
}
