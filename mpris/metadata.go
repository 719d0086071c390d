package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"
)

// MediaMetadata is a mapping from metadata attribute names to values.
//
// https://www.freedesktop.org/wiki/Specifications/mpris-spec/metadata/
type MediaMetadata map[string]dbus.Variant

// TrackID returns the object path identifying the current track, or the
// NoTrack path if the player did not report one.
func (m MediaMetadata) TrackID() dbus.ObjectPath {
	v, ok := m["mpris:trackid"]
	if !ok {
		return noTrack
	}

	switch id := v.Value().(type) {
	case dbus.ObjectPath:
		return id
	case string:
		return dbus.ObjectPath(id)
	}

	return noTrack
}

// Title returns the descriptive title of the content.
func (m MediaMetadata) Title() string {
	v, ok := m["xesam:title"]
	if !ok {
		return ""
	}

	s, _ := v.Value().(string)
	return s
}

// MediaDuration returns the duration of the media, or 0 if unknown.
func (m MediaMetadata) MediaDuration() time.Duration {
	v, ok := m["mpris:length"]
	if !ok {
		return 0
	}

	switch n := v.Value().(type) {
	case int64:
		return time.Duration(n) * time.Microsecond
	case uint64:
		return time.Duration(n) * time.Microsecond
	case int32:
		return time.Duration(n) * time.Microsecond
	}

	return 0
}
