package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// OpenTempFile creates a file with the given content in a test-scoped
// directory and returns it opened for reading and writing. The file is
// removed with the test's temp dir; closing it is the caller's job
// (typically by handing it to a snapshot).
func OpenTempFile(t *testing.T, content []byte) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "backing")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write backing file: %v", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open backing file: %v", err)
	}
	return f
}

// Pattern returns a deterministic byte pattern of length n with no zero
// bytes, so it is distinguishable from freshly zeroed memory.
func Pattern(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i%251) + 1
	}
	return buf
}

// AllZero reports whether every byte of b is zero.
func AllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
