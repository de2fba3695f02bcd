package dectalk

import (
	"encoding/binary"
	"fmt"

	"github.com/dgnsrekt/dectalk-go/dectalk/engine"
)

// chunk is one pool entry. Ownership alternates between the core and the
// engine; queued tracks which side currently holds it.
type chunk struct {
	buf    engine.Buffer
	queued bool
}

// chunkPool owns the fixed set of audio chunks cycled through the engine.
// Chunks are allocated once and never freed or reallocated, so their backing
// storage stays stable for the lifetime of the session.
type chunkPool struct {
	chunks [numChunks]*chunk
}

// newChunkPool allocates the pool with zeroed, full-capacity chunks.
func newChunkPool() *chunkPool {
	p := &chunkPool{}
	for i := range p.chunks {
		p.chunks[i] = &chunk{buf: engine.Buffer{Data: make([]byte, chunkSize)}}
	}
	return p
}

// arm resets every chunk to zero length and queues it with the engine.
// All chunks must be core-held when arm is called; a chunk still queued from
// a previous request means the protocol was not drained to completion.
func (p *chunkPool) arm(eng engine.Interface) error {
	for i, c := range p.chunks {
		if c.queued {
			return fmt.Errorf("chunk %d already queued", i)
		}
	}
	for _, c := range p.chunks {
		c.buf.Length = 0
		if err := eng.AddBuffer(&c.buf); err != nil {
			return err
		}
		c.queued = true
	}
	return nil
}

// lookup maps an engine buffer back to its pool chunk, or nil for a buffer
// the pool does not own.
func (p *chunkPool) lookup(buf *engine.Buffer) *chunk {
	for _, c := range p.chunks {
		if &c.buf == buf {
			return c
		}
	}
	return nil
}

// reclaim marks every chunk core-held. Used when a request is abandoned and
// the engine has been reset, which invalidates its queue.
func (p *chunkPool) reclaim() {
	for _, c := range p.chunks {
		c.queued = false
		c.buf.Length = 0
	}
}

// sink accumulates synthesized samples into a caller-owned buffer. The
// destination is borrowed for the duration of one synthesis call; every copy
// clamps to the remaining capacity, so the sum of samples ever written never
// exceeds len(dst).
type sink struct {
	dst     []int16
	written int
}

// consume copies as much of a filled buffer as fits, advancing the running
// count, and returns the number of samples copied. A full sink consumes
// nothing; the caller still re-queues the chunk so the engine stays
// unblocked.
func (s *sink) consume(buf *engine.Buffer) int {
	samples := buf.Length / BytesPerSample
	if remaining := len(s.dst) - s.written; samples > remaining {
		samples = remaining
	}
	if samples <= 0 {
		return 0
	}
	for i := 0; i < samples; i++ {
		s.dst[s.written+i] = int16(binary.LittleEndian.Uint16(buf.Data[i*BytesPerSample:]))
	}
	s.written += samples
	return samples
}
