// Package audio plays and encodes the synthesizer's PCM output.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/dgnsrekt/dectalk-go/dectalk"
)

// The audio device context is process-wide; oto forbids a second one.
var (
	contextOnce sync.Once
	context     *oto.Context
	contextErr  error
)

// deviceContext returns the shared audio device context, opening it on first
// use with the synthesizer's fixed output format.
func deviceContext() (*oto.Context, error) {
	contextOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   dectalk.SampleRate,
			ChannelCount: dectalk.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			contextErr = fmt.Errorf("opening audio device: %w", err)
			return
		}
		<-ready
		context = ctx
	})
	return context, contextErr
}

// Play sends samples to the default audio device and blocks until playback
// finishes.
func Play(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	ctx, err := deviceContext()
	if err != nil {
		return err
	}

	player := ctx.NewPlayer(bytes.NewReader(Bytes(samples)))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}

// Bytes serializes samples as little-endian 16-bit PCM.
func Bytes(samples []int16) []byte {
	data := make([]byte, len(samples)*dectalk.BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

// WriteWAV writes a minimal RIFF/WAVE container around the PCM data.
func WriteWAV(w io.Writer, samples []int16) error {
	data := Bytes(samples)
	byteRate := dectalk.SampleRate * dectalk.Channels * dectalk.BytesPerSample
	blockAlign := dectalk.Channels * dectalk.BytesPerSample

	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(36+len(data)))
	header.WriteString("WAVEfmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&header, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&header, binary.LittleEndian, uint16(dectalk.Channels))
	binary.Write(&header, binary.LittleEndian, uint32(dectalk.SampleRate))
	binary.Write(&header, binary.LittleEndian, uint32(byteRate))
	binary.Write(&header, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&header, binary.LittleEndian, uint16(dectalk.BitDepth))
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(len(data)))

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
