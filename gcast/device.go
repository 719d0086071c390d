package gcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/grandcat/zeroconf"
)

// serviceType is the DNS-SD service Cast devices advertise.
const serviceType = "_googlecast._tcp"

// ErrNoDevice is returned when no Cast device answers discovery.
var ErrNoDevice = errors.New("no cast device found")

// DeviceCapability represents one of the defined device capabilities.
type DeviceCapability uint

// String returns the string representation of the device capability.
func (c DeviceCapability) String() string {
	switch c {
	case None:
		return "none"
	case VideoOut:
		return "video_out"
	case VideoIn:
		return "video_in"
	case AudioOut:
		return "audio_out"
	case AudioIn:
		return "audio_in"
	case DevMode:
		return "dev_mode"
	case MultizoneGroup:
		return "multizone_group"
	default:
		return strconv.Itoa(int(c))
	}
}

// Defined Google Cast device capabilities.
//
// Source: https://github.com/chromium/chromium/blob/master/components/cast_channel/cast_socket.h#L46
const (
	None           DeviceCapability = 0
	VideoOut       DeviceCapability = 1 << 0
	VideoIn        DeviceCapability = 1 << 1
	AudioOut       DeviceCapability = 1 << 2
	AudioIn        DeviceCapability = 1 << 3
	DevMode        DeviceCapability = 1 << 4
	MultizoneGroup DeviceCapability = 1 << 5
)

var knownCapabilities = []DeviceCapability{VideoOut, VideoIn, AudioOut, AudioIn, DevMode, MultizoneGroup}

// DeviceInfo describes a Cast device found on the local network.
type DeviceInfo struct {
	UUID  uuid.UUID
	Name  string
	Model string

	IPv4 net.IP
	IPv6 net.IP
	Port int

	capabilities DeviceCapability
}

// Addr returns the host:port of the device's cast channel, preferring
// IPv4.
func (d DeviceInfo) Addr() string {
	ip := d.IPv4
	if ip == nil {
		ip = d.IPv6
	}

	return net.JoinHostPort(ip.String(), strconv.Itoa(d.Port))
}

// Capabilities returns a list of device capabilities.
func (d DeviceInfo) Capabilities() []DeviceCapability {
	var result []DeviceCapability
	for _, c := range knownCapabilities {
		if d.capabilities&c != 0 {
			result = append(result, c)
		}
	}

	return result
}

// CapableOf returns true if the device has all given capabilities.
func (d DeviceInfo) CapableOf(capabilities ...DeviceCapability) bool {
	var mask DeviceCapability
	for _, c := range capabilities {
		mask |= c
	}

	return d.capabilities&mask == mask
}

// Discover browses mDNS for Cast devices until ctx is done and returns
// the devices found, ordered by name.
func Discover(ctx context.Context) ([]DeviceInfo, error) {
	resolver, err := zeroconf.NewResolver()
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 8)
	if err := resolver.Browse(ctx, serviceType, "local.", entries); err != nil {
		return nil, fmt.Errorf("browse %s: %w", serviceType, err)
	}

	seen := make(map[string]bool)
	var devs []DeviceInfo
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return sortDevices(devs)
			}
			if entry == nil {
				continue
			}

			dev := deviceFromEntry(entry)
			if dev.IPv4 == nil && dev.IPv6 == nil {
				continue
			}
			key := dev.UUID.String()
			if dev.UUID == uuid.Nil {
				key = dev.Addr()
			}
			if !seen[key] {
				seen[key] = true
				devs = append(devs, dev)
			}
		case <-ctx.Done():
			return sortDevices(devs)
		}
	}
}

func sortDevices(devs []DeviceInfo) ([]DeviceInfo, error) {
	if len(devs) == 0 {
		return nil, ErrNoDevice
	}
	sort.Slice(devs, func(i, j int) bool { return devs[i].Name < devs[j].Name })

	return devs, nil
}

// deviceFromEntry reads the device from its DNS-SD record. The TXT
// record carries the UUID (id), friendly name (fn), model (md) and
// capability bitmask (ca).
func deviceFromEntry(entry *zeroconf.ServiceEntry) DeviceInfo {
	dev := DeviceInfo{Port: entry.Port}

	if len(entry.AddrIPv4) > 0 {
		dev.IPv4 = entry.AddrIPv4[0]
	}
	if len(entry.AddrIPv6) > 0 {
		dev.IPv6 = entry.AddrIPv6[0]
	}

	for _, value := range entry.Text {
		key, val, ok := strings.Cut(value, "=")
		if !ok {
			continue
		}

		switch key {
		case "id":
			dev.UUID, _ = uuid.Parse(val)
		case "fn":
			dev.Name = val
		case "md":
			dev.Model = val
		case "ca":
			if ca, err := strconv.Atoi(val); err == nil {
				dev.capabilities = DeviceCapability(ca)
			}
		}
	}

	return dev
}

// Resolve picks the device to use. An empty name selects the first
// device; otherwise name matches a friendly name, ignoring case, or a
// device UUID.
func Resolve(devs []DeviceInfo, name string) (DeviceInfo, error) {
	if len(devs) == 0 {
		return DeviceInfo{}, ErrNoDevice
	}
	if name == "" {
		return devs[0], nil
	}

	id, idErr := uuid.Parse(name)
	for _, dev := range devs {
		if strings.EqualFold(dev.Name, name) || (idErr == nil && dev.UUID == id) {
			return dev, nil
		}
	}

	return DeviceInfo{}, fmt.Errorf("device %q: %w", name, ErrNoDevice)
}
