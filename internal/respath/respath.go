// Package respath locates DECtalk runtime resources on disk.
package respath

import (
	"errors"
	"os"
	"path/filepath"
)

// dictionaryName is the US English pronunciation dictionary shipped with the
// engine.
const dictionaryName = "dtalk_us.dic"

// ErrNotFound is returned when no dictionary exists at any known location.
var ErrNotFound = errors.New("dectalk dictionary not found")

// Dictionary resolves the pronunciation dictionary relative to the running
// executable, checking the app-bundle resource layout first and falling back
// to system install locations.
func Dictionary() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(exe)

	return find([]string{
		// Bundled layout: Resources sits beside the executable directory.
		filepath.Join(dir, "..", "Resources", dictionaryName),
		filepath.Join(dir, dictionaryName),
		filepath.Join("/usr/local/share/dectalk", dictionaryName),
		filepath.Join("/usr/share/dectalk", dictionaryName),
	})
}

// find returns the first candidate that exists as a regular file.
func find(candidates []string) (string, error) {
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", ErrNotFound
}
