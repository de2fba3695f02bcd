//go:build !dectalk

package engine

// NewNative returns the cgo-backed DECtalk engine. This build was compiled
// without the "dectalk" tag, so no engine is linked in.
func NewNative() (Interface, error) {
	return nil, ErrNotAvailable
}
