package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Sink writes packets in wire format, the mirror of ReadPacket. Each Send
// and the final Goodbye flush, so the peer never waits on a buffered frame.
type Sink struct {
	w *bufio.Writer
}

func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

func (s *Sink) Send(p *Packet) error {
	if uint64(len(p.Body)) > math.MaxUint32 {
		return fmt.Errorf("packet body of %d bytes does not fit the length field", len(p.Body))
	}

	var head [HeaderLen]byte
	head[0] = p.Flag()
	binary.BigEndian.PutUint32(head[1:5], uint32(len(p.Body)))
	binary.BigEndian.PutUint32(head[5:9], uint32(p.ID))

	if _, err := s.w.Write(head[:]); err != nil {
		return fmt.Errorf("write packet header: %w", err)
	}
	if _, err := s.w.Write(p.Body); err != nil {
		return fmt.Errorf("write packet body: %w", err)
	}
	return s.w.Flush()
}

// Goodbye writes the all-zero header that ends the packet sequence.
func (s *Sink) Goodbye() error {
	var head [HeaderLen]byte
	if _, err := s.w.Write(head[:]); err != nil {
		return fmt.Errorf("write goodbye: %w", err)
	}
	return s.w.Flush()
}
