// Package enginetest provides an in-memory fake of the DECtalk engine
// boundary. It reproduces the SDK's buffer-cycling behavior deterministically:
// queued buffers are filled during Speak, full buffers are delivered through
// the fill callback, and the trailing partial buffer is withheld until the
// caller drains it with ReturnBuffer.
package enginetest

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgnsrekt/dectalk-go/dectalk/engine"
)

// DefaultSamplesPerByte is how many PCM samples the fake produces per byte of
// submitted text. Small enough that short strings stay inside one chunk,
// large enough that a paragraph spans several.
const DefaultSamplesPerByte = 16

// Fake implements engine.Interface for tests and for demo runs without the
// native SDK. Generated audio is a deterministic ramp: the Nth sample of an
// utterance has value N (wrapping at int16 range), so callers can verify
// ordering and byte counts exactly.
type Fake struct {
	// SamplesPerByte scales how much audio one byte of text produces.
	// Zero means DefaultSamplesPerByte.
	SamplesPerByte int

	// DeliverAll delivers every filled buffer through the callback instead
	// of withholding the trailing partial buffer for ReturnBuffer.
	DeliverAll bool

	// Failure injection. A non-nil error makes the matching call fail.
	StartupErr      error
	OpenInMemoryErr error
	SpeakErr        error
	SyncErr         error

	// Spoken records every utterance accepted by Speak, in order.
	Spoken []string

	started  bool
	inMemory bool
	fill     engine.FillFunc
	dict     string

	speaker int
	rate    int
	volume  uint32

	// Buffers the core has queued and the fake has not yet filled.
	queue []*engine.Buffer
	// Filled buffers the fake is holding for ReturnBuffer.
	held []*engine.Buffer

	sample int16
}

// New returns a ready-to-start fake engine.
func New() *Fake {
	return &Fake{rate: 180}
}

// Startup records the fill callback and dictionary path.
func (f *Fake) Startup(opts engine.StartupOptions) error {
	if f.StartupErr != nil {
		return f.StartupErr
	}
	if f.started {
		return errors.New("fake engine already started")
	}
	if !opts.DisableAudioDevice {
		return errors.New("fake engine supports in-memory synthesis only")
	}
	f.started = true
	f.fill = opts.Fill
	f.dict = opts.DictionaryPath
	return nil
}

// Shutdown stops the fake. Safe to call repeatedly.
func (f *Fake) Shutdown() error {
	f.started = false
	f.inMemory = false
	f.queue = nil
	f.held = nil
	return nil
}

// OpenInMemory enters in-memory mode.
func (f *Fake) OpenInMemory(format engine.Format) error {
	if f.OpenInMemoryErr != nil {
		return f.OpenInMemoryErr
	}
	if !f.started {
		return errors.New("fake engine not started")
	}
	if format != engine.FormatMono16Khz11 {
		return fmt.Errorf("unsupported format %d", format)
	}
	f.inMemory = true
	return nil
}

// CloseInMemory leaves in-memory mode and discards held audio.
func (f *Fake) CloseInMemory() error {
	f.inMemory = false
	f.held = nil
	return nil
}

// AddBuffer queues an empty buffer for filling.
func (f *Fake) AddBuffer(buf *engine.Buffer) error {
	if !f.started {
		return errors.New("fake engine not started")
	}
	for _, q := range f.queue {
		if q == buf {
			return errors.New("buffer queued twice")
		}
	}
	f.queue = append(f.queue, buf)
	return nil
}

// ReturnBuffer hands back one held buffer, filled ones first, then any empty
// buffers still in the queue. Reports false once the fake holds nothing.
func (f *Fake) ReturnBuffer() (*engine.Buffer, bool) {
	if len(f.held) > 0 {
		buf := f.held[0]
		f.held = f.held[1:]
		return buf, true
	}
	if len(f.queue) > 0 {
		buf := f.queue[0]
		f.queue = f.queue[1:]
		buf.Length = 0
		return buf, true
	}
	return nil, false
}

// Speak synthesizes text synchronously. Full buffers are delivered through
// the fill callback on the calling goroutine, exactly like the SDK; the
// handler is expected to re-queue them via AddBuffer. The final partial
// buffer stays held until drained, unless DeliverAll is set.
func (f *Fake) Speak(text string, force bool) error {
	if f.SpeakErr != nil {
		return f.SpeakErr
	}
	if !f.started || !f.inMemory {
		return errors.New("fake engine not ready to speak")
	}
	f.Spoken = append(f.Spoken, text)
	f.sample = 0

	spb := f.SamplesPerByte
	if spb <= 0 {
		spb = DefaultSamplesPerByte
	}
	remaining := len(text) * spb * 2 // bytes of 16-bit PCM

	for remaining > 0 && len(f.queue) > 0 {
		buf := f.queue[0]
		f.queue = f.queue[1:]

		n := cap(buf.Data)
		if n > remaining {
			n = remaining
		}
		f.generate(buf, n)
		remaining -= n

		if remaining == 0 && !f.DeliverAll {
			f.held = append(f.held, buf)
			break
		}
		if f.fill != nil {
			f.fill(buf)
		} else {
			f.held = append(f.held, buf)
		}
	}
	return nil
}

// Sync blocks until synthesis completes. The fake synthesizes inside Speak,
// so there is never anything left to wait for.
func (f *Fake) Sync() error {
	return f.SyncErr
}

// SetSpeaker records the active voice ordinal.
func (f *Fake) SetSpeaker(ordinal int) error {
	if !f.started {
		return errors.New("fake engine not started")
	}
	f.speaker = ordinal
	return nil
}

// Speaker reports the last ordinal passed to SetSpeaker.
func (f *Fake) Speaker() int { return f.speaker }

// SetRate records the speaking rate.
func (f *Fake) SetRate(wpm int) error {
	f.rate = wpm
	return nil
}

// Rate reports the recorded speaking rate.
func (f *Fake) Rate() (int, error) {
	return f.rate, nil
}

// SetVolume records the packed channel volume.
func (f *Fake) SetVolume(channels uint32) error {
	f.volume = channels
	return nil
}

// Volume reports the last packed volume value.
func (f *Fake) Volume() uint32 { return f.volume }

// Reset discards queued and held buffers.
func (f *Fake) Reset() error {
	f.queue = nil
	f.held = nil
	return nil
}

// Version reports a fixed fake version string.
func (f *Fake) Version() string {
	return "fake-dectalk 1.0"
}

// Dictionary reports the dictionary path given at startup.
func (f *Fake) Dictionary() string { return f.dict }

// QueuedBuffers reports how many empty buffers the fake currently holds.
func (f *Fake) QueuedBuffers() int { return len(f.queue) }

// generate writes n bytes of the sample ramp into buf.
func (f *Fake) generate(buf *engine.Buffer, n int) {
	n -= n % 2
	data := buf.Data[:cap(buf.Data)]
	for i := 0; i < n; i += 2 {
		binary.LittleEndian.PutUint16(data[i:], uint16(f.sample))
		f.sample++
	}
	buf.Length = n
}
