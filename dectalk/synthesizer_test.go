package dectalk

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/dectalk-go/dectalk/engine/enginetest"
)

// expectedSamples computes how many samples the fake engine produces for a
// given caller text spoken with the given voice.
func expectedSamples(v Voice, text string) int {
	return len(v.Command()+text) * enginetest.DefaultSamplesPerByte
}

// TestSynthesizeAutoInit tests that the first Synthesize call initializes
// the session on its own.
func TestSynthesizeAutoInit(t *testing.T) {
	s, fake := newTestSession(t)

	out := make([]int16, 8192)
	n, err := s.Synthesize("Hello", out)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if want := expectedSamples(Paul, "Hello"); n != want {
		t.Errorf("samples = %d, want %d", n, want)
	}
	if len(fake.Spoken) != 1 {
		t.Fatalf("engine received %d utterances, want 1", len(fake.Spoken))
	}
}

// TestSynthesizeVoicePrefix tests that the utterance reaching the engine
// carries the current voice's command prefix.
func TestSynthesizeVoicePrefix(t *testing.T) {
	s, fake := newTestSession(t)
	if err := s.SetVoice(Betty); err != nil {
		t.Fatalf("SetVoice: %v", err)
	}

	if _, err := s.Synthesize("good morning", make([]int16, 16384)); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if got, want := fake.Spoken[0], "[:nb]good morning"; got != want {
		t.Errorf("utterance = %q, want %q", got, want)
	}
}

// TestSynthesizeSampleContent tests that samples arrive in order and
// unmodified through the callback-and-drain path. The fake generates a ramp,
// so the Nth output sample must equal N.
func TestSynthesizeSampleContent(t *testing.T) {
	s, _ := newTestSession(t)

	// Long enough to span multiple chunks: full chunks travel through the
	// fill callback, the trailing partial chunk through the drain.
	text := strings.Repeat("a", 1500)
	want := expectedSamples(Paul, text)
	if want <= chunkSize/BytesPerSample {
		t.Fatalf("test text does not span chunks: %d samples", want)
	}

	out := make([]int16, want+100)
	n, err := s.Synthesize(text, out)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if n != want {
		t.Fatalf("samples = %d, want %d", n, want)
	}
	for i := 0; i < n; i++ {
		if out[i] != int16(i) {
			t.Fatalf("sample %d = %d, want %d", i, out[i], int16(i))
		}
	}
}

// TestSynthesizeOverflowClamp tests that output exceeding the buffer is
// silently truncated to exactly the buffer size, with no write past the end.
func TestSynthesizeOverflowClamp(t *testing.T) {
	s, _ := newTestSession(t)

	text := strings.Repeat("overflow ", 300)
	capacity := 500
	if expectedSamples(Paul, text) <= capacity {
		t.Fatal("test text does not overflow the buffer")
	}

	// Guard region after the sink's view of the allocation.
	backing := make([]int16, capacity+64)
	for i := capacity; i < len(backing); i++ {
		backing[i] = -7
	}

	n, err := s.Synthesize(text, backing[:capacity])
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if n != capacity {
		t.Errorf("samples = %d, want exactly %d", n, capacity)
	}
	for i := capacity; i < len(backing); i++ {
		if backing[i] != -7 {
			t.Fatalf("guard sample %d overwritten", i)
		}
	}
}

// TestSynthesizeNilBuffer tests the null-argument error path.
func TestSynthesizeNilBuffer(t *testing.T) {
	s, _ := newTestSession(t)

	n, err := s.Synthesize("text", nil)
	if !errors.Is(err, ErrSynthFailed) {
		t.Fatalf("error = %v, want ErrSynthFailed", err)
	}
	if n != 0 {
		t.Errorf("samples = %d, want 0 on error", n)
	}
}

// TestSynthesizeEmptyBuffer tests that a zero-capacity buffer yields zero
// samples without error.
func TestSynthesizeEmptyBuffer(t *testing.T) {
	s, _ := newTestSession(t)

	n, err := s.Synthesize("text", make([]int16, 0, 1))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if n != 0 {
		t.Errorf("samples = %d, want 0", n)
	}
}

// TestSynthesizeInitFailurePropagates tests that auto-init failure surfaces
// as ErrInitFailed.
func TestSynthesizeInitFailurePropagates(t *testing.T) {
	s, fake := newTestSession(t)
	fake.StartupErr = errors.New("no engine")

	if _, err := s.Synthesize("text", make([]int16, 64)); !errors.Is(err, ErrInitFailed) {
		t.Fatalf("error = %v, want ErrInitFailed", err)
	}
}

// TestSynthesizeSpeakFailure tests a rejected submission.
func TestSynthesizeSpeakFailure(t *testing.T) {
	s, fake := newTestSession(t)
	fake.SpeakErr = errors.New("rejected")

	n, err := s.Synthesize("text", make([]int16, 64))
	if !errors.Is(err, ErrSynthFailed) {
		t.Fatalf("error = %v, want ErrSynthFailed", err)
	}
	if n != 0 {
		t.Errorf("samples = %d, want 0 on error", n)
	}

	// The failure must not wedge the session: a later call succeeds.
	fake.SpeakErr = nil
	if _, err := s.Synthesize("text", make([]int16, 8192)); err != nil {
		t.Fatalf("Synthesize after failure: %v", err)
	}
}

// TestSynthesizeOpenInMemoryFailure tests the in-memory mode error path.
func TestSynthesizeOpenInMemoryFailure(t *testing.T) {
	s, fake := newTestSession(t)
	fake.OpenInMemoryErr = errors.New("mode rejected")

	if _, err := s.Synthesize("text", make([]int16, 64)); !errors.Is(err, ErrSynthFailed) {
		t.Fatalf("error = %v, want ErrSynthFailed", err)
	}
}

// TestSynthesizeRepeated tests pool re-arming across consecutive calls.
func TestSynthesizeRepeated(t *testing.T) {
	s, fake := newTestSession(t)

	out := make([]int16, 65536)
	for i, text := range []string{"first", "second utterance", strings.Repeat("third ", 400)} {
		n, err := s.Synthesize(text, out)
		if err != nil {
			t.Fatalf("Synthesize call %d: %v", i+1, err)
		}
		if want := expectedSamples(Paul, text); n != want {
			t.Errorf("call %d samples = %d, want %d", i+1, n, want)
		}
	}
	if len(fake.Spoken) != 3 {
		t.Errorf("engine received %d utterances, want 3", len(fake.Spoken))
	}
}

// TestSynthesizeDeliverAllPath tests the protocol when the engine delivers
// every buffer through the callback and the drain finds only empty chunks.
func TestSynthesizeDeliverAllPath(t *testing.T) {
	s, fake := newTestSession(t)
	fake.DeliverAll = true

	text := strings.Repeat("b", 1500)
	want := expectedSamples(Paul, text)
	out := make([]int16, want+10)

	n, err := s.Synthesize(text, out)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if n != want {
		t.Errorf("samples = %d, want %d", n, want)
	}
}

// TestSynthesizeFunc tests callback-mode synthesis.
func TestSynthesizeFunc(t *testing.T) {
	s, _ := newTestSession(t)

	var calls int
	var got []int16
	err := s.SynthesizeFunc("Hello", func(samples []int16) {
		calls++
		got = append([]int16(nil), samples...)
	})
	if err != nil {
		t.Fatalf("SynthesizeFunc: %v", err)
	}
	if calls != 1 {
		t.Fatalf("callback invoked %d times, want 1", calls)
	}
	if want := expectedSamples(Paul, "Hello"); len(got) != want {
		t.Errorf("callback samples = %d, want %d", len(got), want)
	}
}

// TestSynthesizeFuncNil tests rejection of a nil callback.
func TestSynthesizeFuncNil(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.SynthesizeFunc("text", nil); !errors.Is(err, ErrSynthFailed) {
		t.Fatalf("error = %v, want ErrSynthFailed", err)
	}
}

// TestSynthesizeFuncErrorSkipsCallback tests that the callback never fires
// when synthesis fails.
func TestSynthesizeFuncErrorSkipsCallback(t *testing.T) {
	s, fake := newTestSession(t)
	fake.SpeakErr = errors.New("rejected")

	called := false
	err := s.SynthesizeFunc("text", func([]int16) { called = true })
	if !errors.Is(err, ErrSynthFailed) {
		t.Fatalf("error = %v, want ErrSynthFailed", err)
	}
	if called {
		t.Error("callback invoked despite synthesis failure")
	}
}
