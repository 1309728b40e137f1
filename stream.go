// Package packetstream decodes a byte stream into discrete packets.
//
// A PacketStream owns its source reader and yields packets one at a time
// until the goodbye marker or a decode error closes it for good. Progress is
// made by polling: a poll that would block hands the source to an in-flight
// receive and reports not-ready instead, so a single scheduler loop can
// drive many streams without parking a goroutine per stream on a read.
package packetstream

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/rs/zerolog"

	"packetstream-go/wire"
)

var (
	// ErrNotReady means a receive is in flight; wait on Ready and poll again.
	ErrNotReady = errors.New("packet stream not ready")

	// ErrFinished means the stream ended, on goodbye or after an earlier
	// decode error, and will never yield another packet.
	ErrFinished = errors.New("packet stream finished")
)

type stateKind int

// The zero value is the transition placeholder: a stream caught between
// take and reinstall. No caller may ever observe it.
const (
	stateInvalid stateKind = iota
	stateReady
	stateWaiting
	stateClosed
)

// state holds either the source itself (ready, closed) or the in-flight
// receive that currently owns it (waiting). Exactly one of src and op is
// set, so the source can be neither duplicated nor lost across a transition.
type state struct {
	kind stateKind
	src  io.Reader
	op   *recvOp
}

// recvOp is one receive attempt. The goroutine behind it has sole ownership
// of the source until done is closed; the result slots and the source hand-
// back are published by that close.
type recvOp struct {
	done chan struct{}
	src  io.Reader
	pkt  *wire.Packet // nil with nil err means goodbye
	err  error
}

func startRecv(src io.Reader, maxBody uint32) *recvOp {
	op := &recvOp{done: make(chan struct{})}
	go func() {
		op.pkt, op.err = wire.ReadPacket(src, maxBody)
		op.src = src
		close(op.done)
	}()
	return op
}

// PacketStream decodes packets from a reader. Single owner, single
// consumer: all methods must be called from one goroutine at a time.
type PacketStream struct {
	state   state
	maxBody uint32
	log     zerolog.Logger
}

// New wraps src in a PacketStream. The stream takes ownership of src until
// Reclaim hands it back.
func New(src io.Reader, opts ...Option) *PacketStream {
	s := &PacketStream{
		state:   state{kind: stateReady, src: src},
		maxBody: DefaultMaxBodyLen,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// take extracts the current state, leaving the placeholder behind. Every
// transition goes extract-compute-reinstall so there is no window where the
// state is aliased.
func (s *PacketStream) take() state {
	st := s.state
	s.state = state{kind: stateInvalid}
	return st
}

// Poll advances decoding as far as possible without blocking.
//
//   - (pkt, nil): one packet decoded, the stream is ready for the next Poll.
//   - (nil, ErrNotReady): a receive is in flight; wait on Ready, poll again.
//   - (nil, ErrFinished): goodbye received now or any time earlier.
//   - (nil, err): decode failed; the stream is closed permanently.
func (s *PacketStream) Poll() (*wire.Packet, error) {
	st, pkt, err := s.advance(s.take())
	s.state = st
	return pkt, err
}

func (s *PacketStream) advance(st state) (state, *wire.Packet, error) {
	switch st.kind {
	case stateReady:
		// Hand the source to a fresh receive and immediately poll it, so a
		// source with bytes already available completes in this same call.
		return s.advance(state{kind: stateWaiting, op: startRecv(st.src, s.maxBody)})

	case stateWaiting:
		op := st.op
		select {
		case <-op.done:
		default:
			return st, nil, ErrNotReady
		}
		switch {
		case op.err != nil:
			s.log.Debug().Err(op.err).Msg("packet stream closed on decode error")
			return state{kind: stateClosed, src: op.src}, nil, op.err
		case op.pkt == nil:
			s.log.Debug().Msg("packet stream closed on goodbye")
			return state{kind: stateClosed, src: op.src}, nil, ErrFinished
		default:
			return state{kind: stateReady, src: op.src}, op.pkt, nil
		}

	case stateClosed:
		return st, nil, ErrFinished

	default:
		panic("packetstream: placeholder state observed; stream reclaimed or shared across goroutines")
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Ready returns a channel that is closed once Poll can make progress. While
// a receive is in flight this is its completion; otherwise an already-closed
// channel, since Poll can always make progress from ready or closed.
func (s *PacketStream) Ready() <-chan struct{} {
	if s.state.kind == stateWaiting {
		return s.state.op.done
	}
	return closedChan
}

// Finished reports whether the stream has ended, without polling.
func (s *PacketStream) Finished() bool {
	return s.state.kind == stateClosed
}

// Next blocks until the next packet, ErrFinished, or a decode error.
// Cancelling ctx abandons only the wait: the receive stays in flight and a
// later Poll or Next picks up its result.
func (s *PacketStream) Next(ctx context.Context) (*wire.Packet, error) {
	for {
		pkt, err := s.Poll()
		if !errors.Is(err, ErrNotReady) {
			return pkt, err
		}
		select {
		case <-s.Ready():
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// All yields the remaining packets in order. On a decode error it yields a
// final (nil, err) pair and stops; on goodbye it just stops. The sequence is
// forward-only and not restartable, a second range picks up where the first
// left off.
func (s *PacketStream) All(ctx context.Context) iter.Seq2[*wire.Packet, error] {
	return func(yield func(*wire.Packet, error) bool) {
		for {
			pkt, err := s.Next(ctx)
			if errors.Is(err, ErrFinished) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(pkt, nil) {
				return
			}
		}
	}
}

// Reclaim dismantles the stream and hands back the source, positioned
// wherever decoding left it. Legal from ready or closed; panics while a
// receive is in flight, because the source is inside that operation. The
// stream must not be used afterward.
func (s *PacketStream) Reclaim() io.Reader {
	st := s.take()
	switch st.kind {
	case stateReady, stateClosed:
		return st.src
	case stateWaiting:
		panic("packetstream: Reclaim while a receive is in flight")
	default:
		panic("packetstream: placeholder state observed; stream reclaimed or shared across goroutines")
	}
}
