package packetstream

import "github.com/rs/zerolog"

// DefaultMaxBodyLen bounds the declared body length before the decoder
// allocates for it. The length field allows up to 4 GiB; accepting that from
// an untrusted peer is an easy memory exhaustion, so the default caps well
// below it.
const DefaultMaxBodyLen = 64 << 20

type Option func(*PacketStream)

// WithMaxBodyLen overrides DefaultMaxBodyLen. 0 removes the cap entirely.
func WithMaxBodyLen(n uint32) Option {
	return func(s *PacketStream) {
		s.maxBody = n
	}
}

// WithLogger enables debug tracing of stream closure. Off by default.
func WithLogger(log zerolog.Logger) Option {
	return func(s *PacketStream) {
		s.log = log
	}
}
