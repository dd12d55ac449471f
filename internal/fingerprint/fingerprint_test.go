package fingerprint

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestComputeDeterministic(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("spinning media "), 4096)
	a := writeFile(t, dir, "a.bin", content)
	b := writeFile(t, dir, "b.bin", content)

	fpA, err := Compute(a)
	if err != nil {
		t.Fatalf("Compute(a): %v", err)
	}
	fpB, err := Compute(b)
	if err != nil {
		t.Fatalf("Compute(b): %v", err)
	}

	if fpA.Hash != fpB.Hash {
		t.Errorf("identical content produced different hashes: %s vs %s", fpA.Hash, fpB.Hash)
	}
	if fpA.Signature != fpB.Signature {
		t.Error("identical content produced different signatures")
	}
	if fpA.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", fpA.Size, len(content))
	}
}

func TestComputeDistinguishesContent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", bytes.Repeat([]byte{0x11}, 64*1024))
	b := writeFile(t, dir, "b.bin", bytes.Repeat([]byte{0xEE}, 64*1024))

	fpA, err := Compute(a)
	if err != nil {
		t.Fatalf("Compute(a): %v", err)
	}
	fpB, err := Compute(b)
	if err != nil {
		t.Fatalf("Compute(b): %v", err)
	}

	if fpA.Hash == fpB.Hash {
		t.Error("different content produced the same hash")
	}
	if got := Similarity(fpA, fpB); got > 0.1 {
		t.Errorf("Similarity of opposing byte patterns = %v, want near 0", got)
	}
}

func TestComputeEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.bin", nil)

	fp, err := Compute(path)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if fp.Size != 0 {
		t.Errorf("Size = %d, want 0", fp.Size)
	}
	if fp.Hash == "" {
		t.Error("empty file should still hash")
	}
}

func TestComputeMissingFile(t *testing.T) {
	if _, err := Compute(filepath.Join(t.TempDir(), "gone.bin")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSimilarityExactMatch(t *testing.T) {
	fp := Fingerprint{Hash: "abc"}
	other := Fingerprint{Hash: "abc"}
	// Force disagreeing signatures; equal hashes must still win.
	for i := range other.Signature {
		other.Signature[i] = 0xFF
	}
	if got := Similarity(fp, other); got != 1 {
		t.Errorf("Similarity = %v, want 1 for equal hashes", got)
	}
}

func TestSimilarityNearDuplicate(t *testing.T) {
	dir := t.TempDir()
	base := bytes.Repeat([]byte("frame data block "), 8192)
	modified := append([]byte{}, base...)
	// Perturb a small stretch, leaving most windows untouched.
	copy(modified[100:132], bytes.Repeat([]byte{0xFF}, 32))

	fpA, err := Compute(writeFile(t, dir, "a.bin", base))
	if err != nil {
		t.Fatalf("Compute(a): %v", err)
	}
	fpB, err := Compute(writeFile(t, dir, "b.bin", modified))
	if err != nil {
		t.Fatalf("Compute(b): %v", err)
	}

	if fpA.Hash == fpB.Hash {
		t.Fatal("perturbed content should change the hash")
	}
	if got := Similarity(fpA, fpB); got < 0.9 {
		t.Errorf("Similarity = %v, want >= 0.9 for a tiny perturbation", got)
	}
}

func TestIdentityFor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.bin", []byte("payload"))

	id, err := IdentityFor(path)
	if err != nil {
		t.Fatalf("IdentityFor: %v", err)
	}
	if id.Path != path || id.Size != 7 {
		t.Errorf("unexpected identity: %+v", id)
	}

	if _, err := IdentityFor(dir); err == nil {
		t.Error("IdentityFor on a directory should fail")
	}
}
