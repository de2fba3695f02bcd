package respath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestFindFirstMatch tests that candidates are checked in order.
func TestFindFirstMatch(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", dictionaryName)
	second := filepath.Join(dir, "b", dictionaryName)
	for _, path := range []string{first, second} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("dict"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := find([]string{first, second})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != first {
		t.Errorf("find returned %q, want %q", got, first)
	}
}

// TestFindSkipsMissing tests that nonexistent candidates are passed over.
func TestFindSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, dictionaryName)
	if err := os.WriteFile(present, []byte("dict"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := find([]string{
		filepath.Join(dir, "missing", dictionaryName),
		present,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != present {
		t.Errorf("find returned %q, want %q", got, present)
	}
}

// TestFindSkipsDirectories tests that a directory with the dictionary's name
// does not count as a match.
func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, dictionaryName), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := find([]string{filepath.Join(dir, dictionaryName)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("find on directory candidate: error = %v, want ErrNotFound", err)
	}
}

// TestFindNotFound tests the empty result.
func TestFindNotFound(t *testing.T) {
	_, err := find([]string{filepath.Join(t.TempDir(), "nope.dic")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
