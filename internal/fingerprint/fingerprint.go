package fingerprint

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// SignatureSlots is the fixed length of the content signature. Each slot
// holds the average byte value of one equal-width window of the file.
const SignatureSlots = 64

// slotTolerance is the per-slot byte distance still counted as agreement
// when scoring signatures.
const slotTolerance = 8

// Identity is the stable cache key for one file. A changed size or
// modification time invalidates any fingerprint derived from the old content.
type Identity struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// IdentityFor stats path and returns its current identity.
func IdentityFor(path string) (Identity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Identity{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Identity{}, fmt.Errorf("fingerprint: %s is a directory", path)
	}
	return Identity{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Fingerprint is the derived per-file feature used for equivalence checks.
type Fingerprint struct {
	// Hash is the hex SHA-256 of the full content; equal hashes mean
	// byte-identical files.
	Hash string
	// Signature is the downsampled content profile compared for
	// near-duplicate scoring.
	Signature [SignatureSlots]byte
	// Size is the content length in bytes at computation time.
	Size int64
}

// Compute reads path once, producing both the content hash and the
// downsampled signature.
func Compute(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	window := size / SignatureSlots
	if window == 0 {
		window = 1
	}

	hasher := sha256.New()
	var sums [SignatureSlots]uint64
	var counts [SignatureSlots]uint64

	reader := bufio.NewReaderSize(file, 256*1024)
	buf := make([]byte, 64*1024)
	var offset int64
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			for i := 0; i < n; i++ {
				slot := (offset + int64(i)) / window
				if slot >= SignatureSlots {
					slot = SignatureSlots - 1
				}
				sums[slot] += uint64(buf[i])
				counts[slot]++
			}
			offset += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return Fingerprint{}, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	fp := Fingerprint{
		Hash: hex.EncodeToString(hasher.Sum(nil)),
		Size: offset,
	}
	for i := range sums {
		if counts[i] > 0 {
			fp.Signature[i] = byte(sums[i] / counts[i])
		}
	}
	return fp, nil
}

// Similarity scores two fingerprints in [0, 1]. Identical hashes always
// score 1; otherwise the score is the fraction of signature slots within
// tolerance of each other.
func Similarity(a, b Fingerprint) float64 {
	if a.Hash == b.Hash {
		return 1
	}
	matches := 0
	for i := 0; i < SignatureSlots; i++ {
		da := int(a.Signature[i]) - int(b.Signature[i])
		if da < 0 {
			da = -da
		}
		if da <= slotTolerance {
			matches++
		}
	}
	return float64(matches) / SignatureSlots
}
