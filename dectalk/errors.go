package dectalk

import (
	"errors"
	"fmt"
)

// Error taxonomy for the public surface. Every engine-layer failure is
// translated into one of these before it reaches a caller.
var (
	// ErrInitFailed means the engine rejected startup. The session stays
	// uninitialized and a later call may retry.
	ErrInitFailed = errors.New("engine initialization failed")

	// ErrSynthFailed means a synthesis request could not complete: a nil
	// output buffer, a rejected submission, or an engine-mode failure.
	ErrSynthFailed = errors.New("synthesis failed")

	// ErrInvalidVoice means a voice ordinal outside the registry range.
	ErrInvalidVoice = errors.New("invalid voice")

	// ErrBufferFull is reserved for a future overflow-signaling mode. The
	// current policy clamps silently and never returns it.
	ErrBufferFull = errors.New("output buffer full")
)

// EngineError wraps an engine boundary failure with the operation that hit
// it. It unwraps to the taxonomy sentinel it was classified as, so callers
// can test with errors.Is.
type EngineError struct {
	Op   string // engine operation, e.g. "speak"
	Kind error  // taxonomy sentinel
	Err  error  // underlying engine error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine %s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("engine %s: %v", e.Op, e.Kind)
}

// Unwrap returns the taxonomy sentinel.
func (e *EngineError) Unwrap() error {
	return e.Kind
}

// engineErr classifies an engine failure under a taxonomy sentinel.
func engineErr(op string, kind, err error) error {
	return &EngineError{Op: op, Kind: kind, Err: err}
}
