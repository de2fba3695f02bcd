// Package engine defines the boundary to the native DECtalk synthesis engine.
//
// The engine produces audio asynchronously: the caller queues fixed-size
// buffers, submits text, and the engine invokes the registered fill callback
// each time a buffer is full. The callback runs synchronously on the goroutine
// that submitted the text; the engine does not spawn threads of its own for
// buffer delivery.
package engine

import "errors"

// ErrNotAvailable is returned when no native engine has been linked into the
// binary. Build with the "dectalk" tag and the DECtalk SDK to enable it.
var ErrNotAvailable = errors.New("native DECtalk engine is not available in this build")

// Format identifies the in-memory wave format requested from the engine.
type Format int

const (
	// FormatMono16Khz11 is 16-bit signed little-endian mono PCM at 11025 Hz,
	// the only format the session layer uses.
	FormatMono16Khz11 Format = iota
)

// Buffer is one reusable audio buffer cycled between the core and the engine.
// Data is fixed-capacity backing storage owned by the session's chunk pool;
// the engine writes into it and reports the filled byte count in Length.
type Buffer struct {
	Data   []byte
	Length int
}

// FillFunc is invoked by the engine each time a queued buffer has been filled.
// It runs on the goroutine that called Speak, while that goroutine holds the
// session lock, so it must not call back into any session operation.
type FillFunc func(*Buffer)

// StartupOptions configures engine startup.
type StartupOptions struct {
	// DisableAudioDevice starts the engine without opening an OS audio
	// device. The session layer always sets this; output is in-memory only.
	DisableAudioDevice bool

	// DictionaryPath is the location of the pronunciation dictionary.
	// Empty means the engine falls back to its built-in rules.
	DictionaryPath string

	// Fill receives filled audio buffers during synthesis.
	Fill FillFunc
}

// Interface is the engine boundary consumed by the session layer. Every
// non-nil error is translated into the session's error taxonomy at the
// call site; nothing from this package crosses the public API.
//
// Implementations are not required to be safe for concurrent use. The
// session layer serializes all calls under a single mutex.
type Interface interface {
	// Startup creates the engine instance. The returned instance owns the
	// callback registration for its whole lifetime.
	Startup(opts StartupOptions) error

	// Shutdown releases the engine instance. Calling any other method
	// after Shutdown is undefined.
	Shutdown() error

	// OpenInMemory switches the engine to in-memory synthesis in the given
	// format. Audio is then delivered through queued buffers only.
	OpenInMemory(format Format) error

	// CloseInMemory leaves in-memory mode, discarding buffered audio.
	CloseInMemory() error

	// AddBuffer queues an empty buffer for the engine to fill. The engine
	// holds the buffer until it hands it back through the fill callback or
	// ReturnBuffer.
	AddBuffer(buf *Buffer) error

	// ReturnBuffer hands back one buffer the engine is still holding, in
	// the order the engine chooses. It reports false once the engine holds
	// none.
	ReturnBuffer() (*Buffer, bool)

	// Speak submits text for synthesis. When force is set the engine
	// starts immediately, flushing any residual internal queue. Speak does
	// not return until the engine has accepted or rejected the text; fill
	// callbacks may fire during the call.
	Speak(text string, force bool) error

	// Sync blocks until all submitted text has been synthesized.
	Sync() error

	// SetSpeaker selects the active voice by registry ordinal.
	SetSpeaker(ordinal int) error

	// SetRate sets the speaking rate in words per minute.
	SetRate(wpm int) error

	// Rate reports the engine's current speaking rate.
	Rate() (int, error)

	// SetVolume sets playback volume. The low 16 bits carry the left
	// channel and the high 16 bits the right, each 0-100.
	SetVolume(channels uint32) error

	// Reset discards any in-flight synthesis state.
	Reset() error

	// Version reports the engine version string.
	Version() string
}
