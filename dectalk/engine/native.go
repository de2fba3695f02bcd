//go:build dectalk

package engine

/*
#cgo CFLAGS: -I${SRCDIR}/dectalk/include
#cgo LDFLAGS: -L${SRCDIR}/dectalk/lib -ltts -lm

#include <stdlib.h>
#include <dtk/ttsapi.h>

extern void nativeFillBridge(LONG lParam1, LONG lParam2, DWORD dwInstanceData, UINT uiMsg);
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Native drives the DECtalk SDK through cgo. At most one instance can be
// live per process: the SDK delivers buffer messages through a single C
// callback, and the bridge routes them to the registered instance.
type Native struct {
	handle C.LPTTS_HANDLE_T
	fill   FillFunc

	// buffers maps the C buffer structs the SDK holds back to the Go
	// Buffer they mirror. Keyed by the lpData pointer, which is stable
	// because chunk backing storage is never reallocated.
	buffers map[unsafe.Pointer]*nativeBuffer
}

type nativeBuffer struct {
	c   *C.TTS_BUFFER_T
	go_ *Buffer
	// pinned C copy of the audio region; the SDK writes here and the
	// bridge copies into the Go slice on delivery.
	data unsafe.Pointer
}

// NewNative returns the cgo-backed DECtalk engine.
func NewNative() (Interface, error) {
	return &Native{buffers: make(map[unsafe.Pointer]*nativeBuffer)}, nil
}

func (n *Native) Startup(opts StartupOptions) error {
	devOptions := C.DWORD(0)
	if opts.DisableAudioDevice {
		devOptions = C.DO_NOT_USE_AUDIO_DEVICE
	}

	var dict *C.char
	if opts.DictionaryPath != "" {
		dict = C.CString(opts.DictionaryPath)
		defer C.free(unsafe.Pointer(dict))
	}

	n.fill = opts.Fill
	registerNative(n)

	rc := C.TextToSpeechStartupExFonix(&n.handle, C.WAVE_MAPPER, devOptions,
		(*[0]byte)(C.nativeFillBridge), 0, dict)
	if rc != C.MMSYSERR_NOERROR {
		unregisterNative(n)
		return fmt.Errorf("TextToSpeechStartupExFonix: code %d", int(rc))
	}
	return nil
}

func (n *Native) Shutdown() error {
	if n.handle == nil {
		return nil
	}
	rc := C.TextToSpeechShutdown(n.handle)
	n.handle = nil
	unregisterNative(n)
	for _, b := range n.buffers {
		C.free(b.data)
		C.free(unsafe.Pointer(b.c))
	}
	n.buffers = make(map[unsafe.Pointer]*nativeBuffer)
	if rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechShutdown: code %d", int(rc))
	}
	return nil
}

func (n *Native) OpenInMemory(format Format) error {
	var wf C.DWORD
	switch format {
	case FormatMono16Khz11:
		wf = C.WAVE_FORMAT_1M16
	default:
		return fmt.Errorf("unsupported wave format %d", format)
	}
	if rc := C.TextToSpeechOpenInMemory(n.handle, wf); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechOpenInMemory: code %d", int(rc))
	}
	return nil
}

func (n *Native) CloseInMemory() error {
	if rc := C.TextToSpeechCloseInMemory(n.handle); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechCloseInMemory: code %d", int(rc))
	}
	return nil
}

func (n *Native) AddBuffer(buf *Buffer) error {
	nb := n.mirror(buf)
	nb.c.dwBufferLength = 0
	if rc := C.TextToSpeechAddBuffer(n.handle, nb.c); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechAddBuffer: code %d", int(rc))
	}
	return nil
}

func (n *Native) ReturnBuffer() (*Buffer, bool) {
	var pb C.LPTTS_BUFFER_T
	if rc := C.TextToSpeechReturnBuffer(n.handle, &pb); rc != C.MMSYSERR_NOERROR || pb == nil {
		return nil, false
	}
	buf := n.deliver(pb)
	if buf == nil {
		return nil, false
	}
	return buf, true
}

func (n *Native) Speak(text string, force bool) error {
	flags := C.DWORD(C.TTS_NORMAL)
	if force {
		flags = C.TTS_FORCE
	}
	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	if rc := C.TextToSpeechSpeak(n.handle, ctext, flags); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechSpeak: code %d", int(rc))
	}
	return nil
}

func (n *Native) Sync() error {
	if rc := C.TextToSpeechSync(n.handle); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechSync: code %d", int(rc))
	}
	return nil
}

func (n *Native) SetSpeaker(ordinal int) error {
	if rc := C.TextToSpeechSetSpeaker(n.handle, C.SPEAKER_T(ordinal)); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechSetSpeaker: code %d", int(rc))
	}
	return nil
}

func (n *Native) SetRate(wpm int) error {
	if rc := C.TextToSpeechSetRate(n.handle, C.DWORD(wpm)); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechSetRate: code %d", int(rc))
	}
	return nil
}

func (n *Native) Rate() (int, error) {
	var rate C.DWORD
	if rc := C.TextToSpeechGetRate(n.handle, &rate); rc != C.MMSYSERR_NOERROR {
		return 0, fmt.Errorf("TextToSpeechGetRate: code %d", int(rc))
	}
	return int(rate), nil
}

func (n *Native) SetVolume(channels uint32) error {
	if rc := C.TextToSpeechSetVolume(n.handle, C.VOLUME_MAIN, C.DWORD(channels)); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechSetVolume: code %d", int(rc))
	}
	return nil
}

func (n *Native) Reset() error {
	if rc := C.TextToSpeechReset(n.handle, C.FALSE); rc != C.MMSYSERR_NOERROR {
		return fmt.Errorf("TextToSpeechReset: code %d", int(rc))
	}
	return nil
}

func (n *Native) Version() string {
	return "DECtalk 5.0"
}

// mirror returns the C-side buffer struct for a Go buffer, creating and
// pinning it on first use.
func (n *Native) mirror(buf *Buffer) *nativeBuffer {
	for _, nb := range n.buffers {
		if nb.go_ == buf {
			return nb
		}
	}
	data := C.malloc(C.size_t(cap(buf.Data)))
	cbuf := (*C.TTS_BUFFER_T)(C.malloc(C.size_t(unsafe.Sizeof(C.TTS_BUFFER_T{}))))
	*cbuf = C.TTS_BUFFER_T{}
	cbuf.lpData = (*C.char)(data)
	cbuf.dwMaximumBufferLength = C.DWORD(cap(buf.Data))
	// Phoneme and index-mark tracking stays disabled.
	cbuf.dwMaximumNumberOfPhonemeChanges = 0
	cbuf.dwMaximumNumberOfIndexMarks = 0
	nb := &nativeBuffer{c: cbuf, go_: buf, data: data}
	n.buffers[data] = nb
	return nb
}

// deliver copies a filled C buffer into its Go mirror.
func (n *Native) deliver(pb C.LPTTS_BUFFER_T) *Buffer {
	nb, ok := n.buffers[unsafe.Pointer(pb.lpData)]
	if !ok {
		return nil
	}
	length := int(pb.dwBufferLength)
	if length > cap(nb.go_.Data) {
		length = cap(nb.go_.Data)
	}
	copy(nb.go_.Data[:length], unsafe.Slice((*byte)(nb.data), length))
	nb.go_.Length = length
	return nb.go_
}
