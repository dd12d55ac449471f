package testsupport

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"testing"
)

// WriteFileContent writes content to path, creating parent directories.
func WriteFileContent(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMediaFile fills path with size bytes of deterministic content seeded
// by the file name, so files written under different names never collide as
// exact duplicates. A size <= 0 writes a single byte.
func WriteMediaFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	seed := fnv.New32a()
	seed.Write([]byte(filepath.Base(path)))
	state := seed.Sum32() | 1

	buf := make([]byte, 32*1024)
	var written int64
	for written < size {
		for i := range buf {
			state = state*1664525 + 1013904223
			buf[i] = byte(state >> 24)
		}
		chunk := int64(len(buf))
		if size-written < chunk {
			chunk = size - written
		}
		if _, err := f.Write(buf[:chunk]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		written += chunk
	}
}
