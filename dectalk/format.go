package dectalk

import "time"

// Audio format constants. The engine's in-memory mode produces 16-bit signed
// little-endian PCM, mono, at a fixed sample rate.
const (
	// SampleRate is the engine's output sample rate in Hz.
	SampleRate = 11025
	// Channels is the number of audio channels (mono).
	Channels = 1
	// BitDepth is the bit depth per sample.
	BitDepth = 16
	// BytesPerSample is the number of bytes per sample.
	BytesPerSample = BitDepth / 8
)

// Buffer pool geometry. The pool is allocated once at session init and
// reused for the lifetime of the session.
const (
	// chunkSize is the byte capacity of one pool chunk.
	chunkSize = 32768
	// numChunks is the number of chunks cycled through the engine.
	numChunks = 4
)

// MaxUtterance caps a single callback-mode utterance. Longer output is
// silently truncated, a known design limit rather than an error.
const MaxUtterance = 60 * time.Second

// maxUtteranceSamples is the scratch buffer size for callback-mode synthesis.
const maxUtteranceSamples = SampleRate * 60

// SampleDuration converts a sample count to playing time.
func SampleDuration(samples int) time.Duration {
	return time.Duration(samples) * time.Second / SampleRate
}
