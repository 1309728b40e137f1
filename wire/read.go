package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoGoodbye reports that the source reached EOF before the first
	// header byte of a packet, i.e. the peer closed the stream without
	// sending the goodbye marker. A protocol violation, distinct from a
	// header I/O failure.
	ErrNoGoodbye = errors.New("source closed without goodbye")

	// ErrBodyTooLarge reports a declared body length above the configured
	// limit. Raised before any allocation.
	ErrBodyTooLarge = errors.New("declared body length exceeds limit")
)

// HeaderError is an I/O failure while collecting the 9 header bytes.
type HeaderError struct {
	Err error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("read packet header: %v", e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// BodyError is a failure to obtain the declared body. Size is the declared
// body length, kept for diagnostics.
type BodyError struct {
	Size uint32
	Err  error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("read packet body of %d bytes: %v", e.Size, e.Err)
}

func (e *BodyError) Unwrap() error { return e.Err }

var goodbye [HeaderLen]byte

// ReadPacket decodes one packet from r. It returns (nil, nil) on the goodbye
// marker; callers must not read from r again after that. maxBody bounds the
// declared body length, 0 means unbounded.
//
// Short reads are not errors: the header and body are collected with
// continuation reads until complete or truly failed. Nothing is retried;
// every failure surfaces to the caller as-is.
func ReadPacket(r io.Reader, maxBody uint32) (*Packet, error) {
	var head [HeaderLen]byte

	n, err := r.Read(head[:])
	for n == 0 && err == nil {
		n, err = r.Read(head[:])
	}
	if n == 0 {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoGoodbye
		}
		return nil, &HeaderError{Err: err}
	}
	if n < HeaderLen {
		if _, err := io.ReadFull(r, head[n:]); err != nil {
			return nil, &HeaderError{Err: err}
		}
	}

	if head == goodbye {
		return nil, nil
	}

	bodyLen := binary.BigEndian.Uint32(head[1:5])
	id := int32(binary.BigEndian.Uint32(head[5:9]))

	if maxBody > 0 && bodyLen > maxBody {
		return nil, &BodyError{Size: bodyLen, Err: ErrBodyTooLarge}
	}

	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, &BodyError{Size: bodyLen, Err: err}
		}
	}

	stream, end, typ := DecodeFlags(head[0])
	return &Packet{Stream: stream, End: end, Type: typ, ID: id, Body: body}, nil
}
