// Package timefmt formats and parses media positions.
package timefmt

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration returns a string representation of the duration in the
// form of h:mm:ss. Negative durations are formatted as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour

	m := d / time.Minute
	d -= m * time.Minute

	s := d / time.Second

	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatSeconds formats a position given in seconds. Non-finite positions
// are formatted as zero.
func FormatSeconds(sec float64) string {
	return FormatDuration(Seconds(sec))
}

// Seconds converts float seconds into a duration. Non-finite and negative
// values yield zero.
func Seconds(sec float64) time.Duration {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return 0
	}

	return time.Duration(math.Round(sec * float64(time.Second)))
}

// ParseDuration parses the string in the form of h:mm:ss.
func ParseDuration(str string) (time.Duration, error) {
	var h, m, s time.Duration
	if _, err := fmt.Sscanf(str, "%d:%02d:%02d", &h, &m, &s); err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", str, err)
	}
	if h < 0 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("parse duration %q: out of range", str)
	}

	return h*time.Hour + m*time.Minute + s*time.Second, nil
}
