package dectalk

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/dectalk-go/dectalk/engine"
	"github.com/dgnsrekt/dectalk-go/internal/respath"
)

// Session owns the single engine instance and serializes all access to it.
// One mutex guards every mutating operation, including the whole of a
// synthesis call: at most one request is in flight at a time, and concurrent
// callers block until the current one completes.
//
// Lifecycle is init, use, shutdown. Init is idempotent and Shutdown is safe
// to call repeatedly. Synthesize auto-initializes on first use.
type Session struct {
	mu     sync.Mutex
	eng    engine.Interface
	cfg    Config
	logger *log.Logger

	initialized  bool
	inMemoryOpen bool

	voice  Voice
	rate   int // staged clamped rate; 0 means never set
	volume int

	pool    *chunkPool
	machine *captureMachine

	// sink is the active output destination. Non-nil only while a
	// synthesis call is copying audio; borrowed from the caller, never
	// owned.
	sink *sink
}

// New creates a session over the given engine boundary. The engine is not
// started until Init or the first Synthesize call.
func New(cfg Config, eng engine.Interface) *Session {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "dectalk"})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	s := &Session{
		eng:     eng,
		cfg:     cfg,
		logger:  logger,
		voice:   cfg.StartupVoice(),
		volume:  clampVolume(cfg.Volume),
		machine: newCaptureMachine(),
	}
	if cfg.Rate != 0 {
		s.rate = clampRate(cfg.Rate)
	}
	return s
}

// NewDefault creates a session over the native engine. It fails when the
// binary was built without native engine support.
func NewDefault(cfg Config) (*Session, error) {
	eng, err := engine.NewNative()
	if err != nil {
		return nil, engineErr("startup", ErrInitFailed, err)
	}
	return New(cfg, eng), nil
}

// Init starts the engine session. It is idempotent: an already-initialized
// session returns immediately. On failure the session stays uninitialized
// and Init may be retried.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked()
}

func (s *Session) initLocked() error {
	if s.initialized {
		return nil
	}

	// The pool is allocated once and reused until shutdown. No phoneme or
	// index-mark tracking is requested.
	if s.pool == nil {
		s.pool = newChunkPool()
	}

	dict := s.cfg.DictionaryPath
	if dict == "" {
		found, err := respath.Dictionary()
		if err != nil {
			// The engine falls back to built-in pronunciation rules.
			s.logger.Warn("dictionary not found, using engine defaults", "error", err)
		} else {
			dict = found
		}
	}

	err := s.eng.Startup(engine.StartupOptions{
		DisableAudioDevice: true,
		DictionaryPath:     dict,
		Fill:               s.handleFill,
	})
	if err != nil {
		s.logger.Error("engine startup rejected", "error", err)
		return engineErr("startup", ErrInitFailed, err)
	}

	s.initialized = true
	s.logger.Info("engine session started", "voice", s.voice, "dictionary", dict)

	if s.rate != 0 {
		if err := s.eng.SetRate(s.rate); err != nil {
			s.logger.Warn("staged rate not applied", "wpm", s.rate, "error", err)
		}
	}
	if err := s.eng.SetVolume(packVolume(s.volume)); err != nil {
		s.logger.Warn("staged volume not applied", "volume", s.volume, "error", err)
	}
	return nil
}

// Shutdown closes in-memory mode if open and releases the engine. Further
// calls are no-ops; the session may be re-initialized afterwards.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	if s.inMemoryOpen {
		if err := s.eng.CloseInMemory(); err != nil {
			s.logger.Warn("closing in-memory mode", "error", err)
		}
		s.inMemoryOpen = false
	}
	if err := s.eng.Shutdown(); err != nil {
		s.logger.Warn("engine shutdown", "error", err)
	}
	s.initialized = false
	s.machine.abort()
	s.pool.reclaim()
	s.logger.Info("engine session stopped")
}

// SetVoice selects the active voice. With a live session the change reaches
// the engine immediately; otherwise it is staged and applied at next use.
func (s *Session) SetVoice(v Voice) error {
	if !v.Valid() {
		return ErrInvalidVoice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.voice = v
	if s.initialized {
		if err := s.eng.SetSpeaker(int(v)); err != nil {
			s.logger.Warn("voice change not applied", "voice", v, "error", err)
		}
	}
	return nil
}

// Voice reports the current voice. Before any init it is the configured
// startup voice, Paul by default.
func (s *Session) Voice() Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}

// Reset clears in-flight engine state and closes in-memory mode so stale
// buffered audio is discarded; the next synthesis reopens it. No-op on an
// uninitialized session.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}
	if err := s.eng.Reset(); err != nil {
		return engineErr("reset", ErrSynthFailed, err)
	}
	if s.inMemoryOpen {
		if err := s.eng.CloseInMemory(); err != nil {
			s.logger.Warn("closing in-memory mode", "error", err)
		}
		s.inMemoryOpen = false
	}
	s.machine.abort()
	s.pool.reclaim()
	return nil
}

// Sync blocks until the engine has drained all pending work. No-op on an
// uninitialized session.
func (s *Session) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}
	if err := s.eng.Sync(); err != nil {
		return engineErr("sync", ErrSynthFailed, err)
	}
	return nil
}

// SetRate sets the speaking rate, clamped to [MinRate, MaxRate] words per
// minute. With no live session the value is staged and applied at init.
func (s *Session) SetRate(wpm int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rate = clampRate(wpm)
	if s.initialized {
		if err := s.eng.SetRate(s.rate); err != nil {
			return engineErr("set rate", ErrSynthFailed, err)
		}
	}
	return nil
}

// Rate reports the current speaking rate. A live session is queried; without
// one the staged value is returned, or DefaultRate if none was ever set.
func (s *Session) Rate() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		if wpm, err := s.eng.Rate(); err == nil {
			return wpm
		}
	}
	if s.rate != 0 {
		return s.rate
	}
	return DefaultRate
}

// SetVolume sets the output volume, clamped to [MinVolume, MaxVolume] and
// applied identically to both channels. Out-of-range values are clamped, not
// rejected.
func (s *Session) SetVolume(v int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(v)
	if s.initialized {
		if err := s.eng.SetVolume(packVolume(s.volume)); err != nil {
			return engineErr("set volume", ErrSynthFailed, err)
		}
	}
	return nil
}

// SampleRate reports the engine's fixed output sample rate in Hz.
func (s *Session) SampleRate() int {
	return SampleRate
}

// Version reports the engine version string.
func (s *Session) Version() string {
	return s.eng.Version()
}

// handleFill is the engine's buffer-completion callback. It runs on the
// goroutine that called Speak, while that goroutine holds s.mu, so it must
// not touch the lock. It copies into the sink under the overflow-clamp
// policy, then zeroes and re-queues the chunk; a full sink still re-queues
// so the engine never stalls.
func (s *Session) handleFill(buf *engine.Buffer) {
	if s.machine.state() == captureSubmitted && s.sink != nil && buf.Length > 0 {
		copied := s.sink.consume(buf)
		s.logger.Debug("buffer filled", "bytes", buf.Length, "copied", copied, "written", s.sink.written)
	}
	buf.Length = 0
	if err := s.eng.AddBuffer(buf); err != nil {
		s.logger.Error("re-queueing buffer", "error", err)
		if c := s.pool.lookup(buf); c != nil {
			c.queued = false
		}
	}
}

// drainLocked pulls back every buffer the engine still holds after
// completion, applying the same clamp-and-copy rule in the order the engine
// returns them. Caller holds s.mu.
func (s *Session) drainLocked() {
	for {
		buf, ok := s.eng.ReturnBuffer()
		if !ok {
			break
		}
		if s.sink != nil && buf.Length > 0 {
			copied := s.sink.consume(buf)
			s.logger.Debug("buffer drained", "bytes", buf.Length, "copied", copied, "written", s.sink.written)
		}
		buf.Length = 0
		if c := s.pool.lookup(buf); c != nil {
			c.queued = false
		}
	}
}
