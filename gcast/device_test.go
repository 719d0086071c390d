package gcast

import (
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceFromEntry(t *testing.T) {
	entry := zeroconf.NewServiceEntry("Chromecast-4f6e", serviceType, "local.")
	entry.Port = 8009
	entry.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.20")}
	entry.Text = []string{
		"id=4f6e0ab1c2d34e5f8a9b0c1d2e3f4a5b",
		"fn=Living Room",
		"md=Chromecast",
		"ca=4101",
		"bs",
	}

	dev := deviceFromEntry(entry)
	assert.Equal(t, uuid.MustParse("4f6e0ab1-c2d3-4e5f-8a9b-0c1d2e3f4a5b"), dev.UUID)
	assert.Equal(t, "Living Room", dev.Name)
	assert.Equal(t, "Chromecast", dev.Model)
	assert.Equal(t, "192.168.1.20:8009", dev.Addr())
	assert.Equal(t, []DeviceCapability{VideoOut, AudioOut}, dev.Capabilities())
	assert.True(t, dev.CapableOf(VideoOut, AudioOut))
	assert.False(t, dev.CapableOf(AudioOut, VideoIn))
}

func TestDeviceAddrIPv6(t *testing.T) {
	dev := DeviceInfo{IPv6: net.ParseIP("fe80::1"), Port: 8009}
	assert.Equal(t, "[fe80::1]:8009", dev.Addr())
}

func TestDeviceCapabilityString(t *testing.T) {
	assert.Equal(t, "audio_out", AudioOut.String())
	assert.Equal(t, "multizone_group", MultizoneGroup.String())
	assert.Equal(t, "64", DeviceCapability(64).String())
}

func TestResolve(t *testing.T) {
	id := uuid.MustParse("4f6e0ab1-c2d3-4e5f-8a9b-0c1d2e3f4a5b")
	devs := []DeviceInfo{
		{Name: "Kitchen"},
		{Name: "Living Room", UUID: id},
	}

	dev, err := Resolve(devs, "")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", dev.Name)

	dev, err = Resolve(devs, "living room")
	require.NoError(t, err)
	assert.Equal(t, id, dev.UUID)

	dev, err = Resolve(devs, id.String())
	require.NoError(t, err)
	assert.Equal(t, "Living Room", dev.Name)

	_, err = Resolve(devs, "Bedroom")
	assert.ErrorIs(t, err, ErrNoDevice)

	_, err = Resolve(nil, "")
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestSortDevices(t *testing.T) {
	devs, err := sortDevices([]DeviceInfo{{Name: "b"}, {Name: "a"}})
	require.NoError(t, err)
	assert.Equal(t, "a", devs[0].Name)

	_, err = sortDevices(nil)
	assert.ErrorIs(t, err, ErrNoDevice)
}
