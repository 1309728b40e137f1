package wire

import "fmt"

// Wire format, per packet:
// 1 flag byte + uint32(bodyLen) + int32(id), both big-endian, then bodyLen
// opaque body bytes. A header of nine zero bytes is the goodbye marker and
// carries no body.
const HeaderLen = 9

// Flag byte layout. The high four bits are unused on the wire.
const (
	flagStream byte = 0b1000
	flagEnd    byte = 0b0100
	typeMask   byte = 0b0011
)

// BodyType classifies the packet body. It is the low two bits of the flag
// byte taken verbatim; the reserved value 3 is carried through rather than
// rejected, validity policy belongs to the caller.
type BodyType byte

const (
	BodyBinary BodyType = 0
	BodyString BodyType = 1
	BodyJSON   BodyType = 2
)

func (t BodyType) String() string {
	switch t {
	case BodyBinary:
		return "binary"
	case BodyString:
		return "string"
	case BodyJSON:
		return "json"
	}
	return fmt.Sprintf("bodytype(%d)", byte(t))
}

// DecodeFlags splits a header flag byte into its three classifications.
// Total over all 256 byte values.
func DecodeFlags(b byte) (stream, end bool, typ BodyType) {
	return b&flagStream != 0, b&flagEnd != 0, BodyType(b & typeMask)
}

// EncodeFlags is the inverse of DecodeFlags. Only the low two bits of typ
// make it onto the wire.
func EncodeFlags(stream, end bool, typ BodyType) byte {
	b := byte(typ) & typeMask
	if stream {
		b |= flagStream
	}
	if end {
		b |= flagEnd
	}
	return b
}

// Packet is a single decoded protocol unit. The decoder hands ownership to
// the receiver and keeps no reference; treat packets as immutable once built.
type Packet struct {
	Stream bool
	End    bool
	Type   BodyType
	ID     int32
	Body   []byte
}

func NewPacket(stream, end bool, typ BodyType, id int32, body []byte) *Packet {
	return &Packet{Stream: stream, End: end, Type: typ, ID: id, Body: body}
}

// Flag returns the packet's header flag byte.
func (p *Packet) Flag() byte {
	return EncodeFlags(p.Stream, p.End, p.Type)
}
