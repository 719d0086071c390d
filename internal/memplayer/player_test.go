package memplayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlayerRecordsActions(t *testing.T) {
	p := New()
	p.SetDuration(time.Minute)

	p.Pause()
	p.Seeking(10 * time.Second)
	p.Seek(12 * time.Second)
	p.Play()
	p.SetVolumeLevel(0.5)

	assert.Equal(t, []string{"pause", "seeking", "seek", "play", "volume"}, p.Names())
	assert.Equal(t, 12*time.Second, p.CurrentTime())
	assert.True(t, p.IsPlaying())
	assert.Equal(t, 0.5, p.VolumeLevel())
	assert.Equal(t, "seek(12s)", p.Actions()[2].String())
	assert.Equal(t, "volume(0.5)", p.Actions()[4].String())

	p.ClearActions()
	assert.Empty(t, p.Actions())
}

func TestPlayerLiveEdge(t *testing.T) {
	p := New()
	p.SetDuration(time.Hour)
	p.SetLive(true, false)

	p.SeekToLiveEdge()
	assert.True(t, p.IsAtLiveEdge())
	assert.Equal(t, time.Hour, p.CurrentTime())

	p.Seek(time.Minute)
	assert.False(t, p.IsAtLiveEdge())

	p.SetLive(false, true)
	assert.False(t, p.IsAtLiveEdge(), "only live media has a live edge")
}
