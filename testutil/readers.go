package testutil

import "io"

// ChunkReader serves Data at most Chunk bytes per Read, then io.EOF. Models
// a source that delivers short reads.
type ChunkReader struct {
	Data  []byte
	Chunk int
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	if len(r.Data) == 0 {
		return 0, io.EOF
	}
	n := r.Chunk
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.Data) {
		n = len(r.Data)
	}
	copy(p, r.Data[:n])
	r.Data = r.Data[n:]
	return n, nil
}

// GateReader blocks every Read until Open is called, then reads pass
// through. Models a source with no bytes available yet.
type GateReader struct {
	R    io.Reader
	gate chan struct{}
}

func NewGateReader(r io.Reader) *GateReader {
	return &GateReader{R: r, gate: make(chan struct{})}
}

// Open releases all pending and future reads. Must be called at most once.
func (g *GateReader) Open() {
	close(g.gate)
}

func (g *GateReader) Read(p []byte) (int, error) {
	<-g.gate
	return g.R.Read(p)
}

// CountReader counts Read calls on the wrapped reader. Calls must only be
// inspected after the reading side has settled.
type CountReader struct {
	R     io.Reader
	Calls int
}

func (c *CountReader) Read(p []byte) (int, error) {
	c.Calls++
	return c.R.Read(p)
}

// FailReader fails every Read with Err without yielding a byte.
type FailReader struct {
	Err error
}

func (f *FailReader) Read([]byte) (int, error) {
	return 0, f.Err
}
