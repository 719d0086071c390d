package slider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericyan/omnislider/schedule"
)

func TestOutputCoalescesWritesPerFrame(t *testing.T) {
	frames := schedule.NewManual()
	core := NewCore()
	out := NewOutput(core, frames)

	var writes []Vars
	out.Sink(func(v Vars) { writes = append(writes, v) })

	core.SetValue(10)
	core.SetValue(20)
	core.PointerValue.Set(35)
	core.Focused.Set(true)
	assert.Empty(t, writes, "writes wait for the frame")
	assert.Equal(t, 1, frames.PendingFrames())

	frames.Frame()
	require.Len(t, writes, 1)
	assert.Equal(t, 20.0, writes[0].Value)
	assert.Equal(t, 20.0, writes[0].FillPercent)
	assert.Equal(t, 35.0, writes[0].PointerPercent)
	assert.True(t, writes[0].Active)

	assert.Equal(t, 0, frames.Frame(), "nothing changed, nothing scheduled")

	core.SetValue(20)
	assert.Equal(t, 0, frames.PendingFrames(), "setting the same value is not a change")
}

func TestOutputClose(t *testing.T) {
	frames := schedule.NewManual()
	core := NewCore()
	out := NewOutput(core, frames)

	writes := 0
	out.Sink(func(Vars) { writes++ })

	core.SetValue(50)
	out.Close()
	frames.Frame()
	core.SetValue(60)
	frames.Frame()

	assert.Equal(t, 0, writes)
}
