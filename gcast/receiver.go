package gcast

import "github.com/ericyan/omnislider/gcast/internal/castv2"

// Player states reported in a media session.
const (
	StateIdle      = "IDLE"
	StatePlaying   = "PLAYING"
	StatePaused    = "PAUSED"
	StateBuffering = "BUFFERING"
)

// StreamTypeLive marks media without a fixed duration.
const StreamTypeLive = "LIVE"

// ReceiverApplication represents an instance of receiver application.
type ReceiverApplication struct {
	AppID        string `json:"appId"`
	Name         string `json:"displayName"`
	StatusText   string `json:"statusText"`
	IsIdleScreen bool   `json:"isIdleScreen"`
	SessionID    string `json:"sessionId"`
	TransportID  string `json:"transportId"`
}

// destination returns the ID media messages are addressed to.
func (a *ReceiverApplication) destination() string {
	if a.TransportID != "" {
		return a.TransportID
	}

	return a.SessionID
}

// ReceiverVolume represents the volume of the receiver device.
type ReceiverVolume struct {
	ControlType  string  `json:"controlType,omitempty"`
	Level        float64 `json:"level,omitempty"`
	Muted        bool    `json:"muted,omitempty"`
	StepInterval float64 `json:"stepInterval,omitempty"`
}

// ReceiverStatus represents the devices status of the receiver.
type ReceiverStatus struct {
	castv2.Header
	Status struct {
		Applications []*ReceiverApplication `json:"applications,omitempty"`
		Volume       *ReceiverVolume        `json:"volume"`
	} `json:"status"`
}

// MediaInformation represents a media stream.
//
// Ref: https://developers.google.com/cast/docs/reference/messages#MediaInformation
type MediaInformation struct {
	ContentID   string        `json:"contentId"`
	ContentType string        `json:"contentType"`
	StreamType  string        `json:"streamType"`
	Metadata    MediaMetadata `json:"metadata,omitempty"`
	Duration    float64       `json:"duration,omitempty"`
}

// SeekableRange is the window of a live stream that can be seeked to,
// in seconds.
type SeekableRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// MediaSession represents the current status of a single session.
type MediaSession struct {
	MediaSessionID    int               `json:"mediaSessionId"`
	Media             *MediaInformation `json:"media,omitempty"`
	PlaybackRate      float64           `json:"playbackRate"`
	PlayerState       string            `json:"playerState"`
	IdleReason        string            `json:"idleReason,omitempty"`
	CurrentTime       float64           `json:"currentTime"`
	LiveSeekableRange *SeekableRange    `json:"liveSeekableRange,omitempty"`
}

// MediaStatus represents the current status of the media artifact with
// respect to the session.
//
// Ref: https://developers.google.com/cast/docs/reference/messages#MediaStatus
type MediaStatus struct {
	castv2.Header
	Status []*MediaSession `json:"status"`
}

type mediaRequest struct {
	castv2.Header
	MediaSessionID int `json:"mediaSessionId"`
}

type seekRequest struct {
	mediaRequest
	CurrentTime float64 `json:"currentTime"`
}

type playbackRateRequest struct {
	mediaRequest
	PlaybackRate float64 `json:"playbackRate"`
}

// volumeRequest always carries the level, which may be zero.
type volumeRequest struct {
	castv2.Header
	Volume struct {
		Level float64 `json:"level"`
	} `json:"volume"`
}
