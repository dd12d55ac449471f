package fpcache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"dupescan/internal/fingerprint"
)

func identity(path string, size int64, mod time.Time) fingerprint.Identity {
	return fingerprint.Identity{Path: path, Size: size, ModTime: mod}
}

func TestGetOrComputeMemoizes(t *testing.T) {
	cache := New(0, nil)
	id := identity("/media/a.jpg", 10, time.Unix(1000, 0))

	calls := 0
	compute := func() (fingerprint.Fingerprint, error) {
		calls++
		return fingerprint.Fingerprint{Hash: "h1", Size: 10}, nil
	}

	first, err := cache.GetOrCompute(id, compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	second, err := cache.GetOrCompute(id, compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}

	if calls != 1 {
		t.Errorf("compute invoked %d times, want 1", calls)
	}
	if first.Hash != second.Hash {
		t.Errorf("cached value differs: %q vs %q", first.Hash, second.Hash)
	}
}

func TestGetOrComputeStaleIdentity(t *testing.T) {
	cache := New(0, nil)
	base := time.Unix(1000, 0)

	calls := 0
	compute := func() (fingerprint.Fingerprint, error) {
		calls++
		return fingerprint.Fingerprint{Hash: "h"}, nil
	}

	if _, err := cache.GetOrCompute(identity("/a", 10, base), compute); err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	// Same path, newer mtime: the old entry is stale.
	if _, err := cache.GetOrCompute(identity("/a", 10, base.Add(time.Second)), compute); err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	// Same path, different size: stale again.
	if _, err := cache.GetOrCompute(identity("/a", 11, base.Add(time.Second)), compute); err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}

	if calls != 3 {
		t.Errorf("compute invoked %d times, want 3", calls)
	}
}

func TestGetOrComputeError(t *testing.T) {
	cache := New(0, nil)
	wantErr := errors.New("read failed")

	_, err := cache.GetOrCompute(identity("/a", 1, time.Now()), func() (fingerprint.Fingerprint, error) {
		return fingerprint.Fingerprint{}, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error not propagated: %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed compute must not populate the cache")
	}
}

func TestInvalidate(t *testing.T) {
	cache := New(0, nil)
	id := identity("/a", 1, time.Unix(1, 0))

	calls := 0
	compute := func() (fingerprint.Fingerprint, error) {
		calls++
		return fingerprint.Fingerprint{}, nil
	}

	cache.GetOrCompute(id, compute)
	cache.Invalidate("/a")
	cache.GetOrCompute(id, compute)

	if calls != 2 {
		t.Errorf("compute invoked %d times after invalidation, want 2", calls)
	}
}

func TestMaxEntriesEviction(t *testing.T) {
	cache := New(2, nil)
	base := time.Unix(1000, 0)

	store := func(path string) {
		cache.GetOrCompute(identity(path, 1, base), func() (fingerprint.Fingerprint, error) {
			return fingerprint.Fingerprint{}, nil
		})
	}
	store("/a")
	store("/b")
	store("/c")

	if got := cache.Len(); got != 2 {
		t.Errorf("Len = %d after capped inserts, want 2", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	cache := New(0, nil)
	id := identity("/shared", 1, time.Unix(1, 0))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.GetOrCompute(id, func() (fingerprint.Fingerprint, error) {
				return fingerprint.Fingerprint{Hash: "same"}, nil
			})
			if err != nil {
				t.Errorf("GetOrCompute: %v", err)
				return
			}
			if value.Hash != "same" {
				t.Errorf("Hash = %q, want %q", value.Hash, "same")
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}
