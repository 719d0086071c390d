package castv2

import (
	"strconv"

	"github.com/gogo/protobuf/proto"
)

// ProtocolVersion is the version field of a cast message.
type ProtocolVersion int32

// ProtocolCastV2_1_0 is the only protocol version in use.
const ProtocolCastV2_1_0 ProtocolVersion = 0

func (v ProtocolVersion) String() string {
	if v == ProtocolCastV2_1_0 {
		return "CASTV2_1_0"
	}

	return strconv.Itoa(int(v))
}

// PayloadType tells which payload field of a cast message is set.
type PayloadType int32

// Payload types.
const (
	PayloadString PayloadType = 0
	PayloadBinary PayloadType = 1
)

func (t PayloadType) String() string {
	switch t {
	case PayloadString:
		return "STRING"
	case PayloadBinary:
		return "BINARY"
	}

	return strconv.Itoa(int(t))
}

// castMessage is extensions.api.cast_channel.CastMessage, the envelope of
// every frame on a cast channel.
//
// Ref: https://github.com/chromium/chromium/blob/master/components/cast_channel/proto/cast_channel.proto
type castMessage struct {
	ProtocolVersion  *ProtocolVersion `protobuf:"varint,1,req,name=protocol_version,json=protocolVersion,enum=extensions.api.cast_channel.CastMessage_ProtocolVersion"`
	SourceID         *string          `protobuf:"bytes,2,req,name=source_id,json=sourceId"`
	DestinationID    *string          `protobuf:"bytes,3,req,name=destination_id,json=destinationId"`
	Namespace        *string          `protobuf:"bytes,4,req,name=namespace"`
	PayloadType      *PayloadType     `protobuf:"varint,5,req,name=payload_type,json=payloadType,enum=extensions.api.cast_channel.CastMessage_PayloadType"`
	PayloadUTF8      *string          `protobuf:"bytes,6,opt,name=payload_utf8,json=payloadUtf8"`
	PayloadBinary    []byte           `protobuf:"bytes,7,opt,name=payload_binary,json=payloadBinary"`
	XXX_unrecognized []byte           `json:"-"`
}

func (m *castMessage) Reset()         { *m = castMessage{} }
func (m *castMessage) String() string { return proto.CompactTextString(m) }
func (*castMessage) ProtoMessage()    {}
