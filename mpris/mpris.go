// Package mpris binds sliders to desktop media players over the MPRIS
// D-Bus interface.
//
// https://specifications.freedesktop.org/mpris-spec/latest/
package mpris

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	// BusNamePrefix prefixes the bus name of every MPRIS player.
	BusNamePrefix = "org.mpris.MediaPlayer2"

	// ObjectPath is where players export their interfaces.
	ObjectPath = "/org/mpris/MediaPlayer2"

	playerInterface = BusNamePrefix + ".Player"
	propertiesSet   = "org.freedesktop.DBus.Properties.Set"
	listNames       = "org.freedesktop.DBus.ListNames"
	noTrack         = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
)

// ErrNoPlayer is returned when no MPRIS player is on the bus.
var ErrNoPlayer = errors.New("no mpris player instance found")

// busObject is the part of dbus.BusObject the adapter uses.
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
}

// Discover returns the bus names of the MPRIS players on the session bus.
func Discover() ([]string, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	return discover(conn.BusObject())
}

func discover(bus busObject) ([]string, error) {
	var names []string
	if err := bus.Call(listNames, 0).Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	var dests []string
	for _, name := range names {
		if strings.HasPrefix(name, BusNamePrefix+".") {
			dests = append(dests, name)
		}
	}
	if len(dests) == 0 {
		return nil, ErrNoPlayer
	}
	sort.Strings(dests)

	return dests, nil
}

// Resolve picks the player to use. An empty name selects the first player
// found; a short name such as "vlc" is expanded to its full bus name.
func Resolve(dests []string, name string) (string, error) {
	if len(dests) == 0 {
		return "", ErrNoPlayer
	}
	if name == "" {
		return dests[0], nil
	}

	for _, dest := range dests {
		if dest == name || dest == BusNamePrefix+"."+name {
			return dest, nil
		}
	}

	return "", fmt.Errorf("player %q: %w", name, ErrNoPlayer)
}
