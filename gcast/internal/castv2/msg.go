// Package castv2 provides a low-level implementation of Google Cast V2
// protocol.
package castv2

import (
	"errors"
	"fmt"

	"github.com/gogo/protobuf/proto"
)

// Sender and receiver IDs to use for platform messages.
const (
	PlatformSenderID   = "sender-0"
	PlatformReceiverID = "receiver-0"
)

// Reserved message namespaces for internal messages.
const (
	NamespaceConnection = "urn:x-cast:com.google.cast.tp.connection"
	NamespaceHeartbeat  = "urn:x-cast:com.google.cast.tp.heartbeat"
	NamespaceReceiver   = "urn:x-cast:com.google.cast.receiver"
	NamespaceMedia      = "urn:x-cast:com.google.cast.media"
)

// Cast application protocol message types.
const (
	TypeConnect         = "CONNECT"
	TypeClose           = "CLOSE"
	TypePing            = "PING"
	TypePong            = "PONG"
	TypeGetStatus       = "GET_STATUS"
	TypeReceiverStatus  = "RECEIVER_STATUS"
	TypeMediaStatus     = "MEDIA_STATUS"
	TypeSetVolume       = "SET_VOLUME"
	TypePlay            = "PLAY"
	TypePause           = "PAUSE"
	TypeSeek            = "SEEK"
	TypeSetPlaybackRate = "SET_PLAYBACK_RATE"
)

// ErrBinaryPayload is returned for messages carrying a binary payload,
// which none of the supported namespaces use.
var ErrBinaryPayload = errors.New("unsupported payload type")

// Msg is a Cast V2 protocol data unit with textual payload.
type Msg struct {
	SourceID      string
	DestinationID string
	Namespace     string
	Payload       string
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Msg) UnmarshalBinary(data []byte) error {
	cm := new(castMessage)
	if err := proto.Unmarshal(data, cm); err != nil {
		return fmt.Errorf("decode cast message: %w", err)
	}
	if cm.PayloadType != nil && *cm.PayloadType != PayloadString {
		return ErrBinaryPayload
	}

	m.SourceID = deref(cm.SourceID)
	m.DestinationID = deref(cm.DestinationID)
	m.Namespace = deref(cm.Namespace)
	m.Payload = deref(cm.PayloadUTF8)

	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Msg) MarshalBinary() ([]byte, error) {
	version, payloadType := ProtocolCastV2_1_0, PayloadString
	cm := &castMessage{
		ProtocolVersion: &version,
		SourceID:        proto.String(m.SourceID),
		DestinationID:   proto.String(m.DestinationID),
		Namespace:       proto.String(m.Namespace),
		PayloadType:     &payloadType,
		PayloadUTF8:     proto.String(m.Payload),
	}

	return proto.Marshal(cm)
}

// String implements the fmt.Stringer interface.
func (m *Msg) String() string {
	return fmt.Sprintf("%s -> %s [%s] %s", m.SourceID, m.DestinationID, m.Namespace, m.Payload)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Header contains the required fields in most payload types.
type Header struct {
	RequestID uint64 `json:"requestId,omitempty"`
	Type      string `json:"type"`
}

// SetRequestID sets the requestId header.
func (h *Header) SetRequestID(id uint64) {
	h.RequestID = id
}

// Request represents a request payload.
type Request interface {
	SetRequestID(id uint64)
}

// NewRequest returns a new request of given type.
func NewRequest(reqType string) Request {
	return &Header{Type: reqType}
}
