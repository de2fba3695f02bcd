package dectalk

import (
	"github.com/dgnsrekt/dectalk-go/dectalk/engine"
)

// Synthesize renders text into the caller's sample buffer and returns the
// number of samples written. The call blocks until the engine has finished
// the utterance; output that would exceed len(out) is silently truncated.
//
// The session auto-initializes on first use. On error no sample count is
// reported and the contents of out are unspecified. The buffer is borrowed
// for the duration of the call and must not be touched concurrently.
func (s *Session) Synthesize(text string, out []int16) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		if err := s.initLocked(); err != nil {
			return 0, err
		}
	}
	if out == nil {
		return 0, ErrSynthFailed
	}

	// In-memory mode opens on first use and stays open across calls.
	if !s.inMemoryOpen {
		if err := s.eng.OpenInMemory(engine.FormatMono16Khz11); err != nil {
			s.logger.Error("opening in-memory mode", "error", err)
			return 0, engineErr("open in-memory", ErrSynthFailed, err)
		}
		s.inMemoryOpen = true
	}

	if !s.machine.transition(captureSubmitted) {
		return 0, ErrSynthFailed
	}
	s.sink = &sink{dst: out}
	defer func() {
		s.sink = nil
		s.machine.abort()
	}()

	if err := s.pool.arm(s.eng); err != nil {
		s.logger.Error("arming buffer pool", "error", err)
		// Pull back whatever was queued before the failure.
		s.drainLocked()
		return 0, engineErr("add buffer", ErrSynthFailed, err)
	}

	if err := s.eng.SetSpeaker(int(s.voice)); err != nil {
		s.logger.Warn("applying voice", "voice", s.voice, "error", err)
	}

	// The force directive flushes any residual engine-internal queue;
	// with a single session there is never an utterance of ours to
	// preempt. Fill callbacks fire inside Speak and Sync, on this
	// goroutine.
	utterance := s.voice.Command() + text
	if err := s.eng.Speak(utterance, true); err != nil {
		s.logger.Error("submission rejected", "error", err)
		s.abandonLocked()
		return 0, engineErr("speak", ErrSynthFailed, err)
	}

	if err := s.eng.Sync(); err != nil {
		s.abandonLocked()
		return 0, engineErr("sync", ErrSynthFailed, err)
	}

	s.machine.transition(captureDraining)
	s.drainLocked()
	s.machine.transition(captureComplete)

	written := s.sink.written
	s.logger.Debug("synthesis complete", "samples", written, "capacity", len(out))
	return written, nil
}

// abandonLocked recovers the pool after a failed submission without copying
// any partial audio into the caller's buffer. Caller holds s.mu.
func (s *Session) abandonLocked() {
	s.sink = nil
	s.drainLocked()
}

// SynthesizeFunc renders text into a scratch buffer sized for MaxUtterance
// of audio and invokes fn exactly once with the result when any samples were
// produced. The samples slice is only valid during the call. Output past the
// utterance cap is silently truncated.
func (s *Session) SynthesizeFunc(text string, fn func(samples []int16)) error {
	if fn == nil {
		return ErrSynthFailed
	}

	scratch := make([]int16, maxUtteranceSamples)
	n, err := s.Synthesize(text, scratch)
	if err != nil {
		return err
	}
	if n > 0 {
		fn(scratch[:n])
	}
	return nil
}
